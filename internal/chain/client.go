package chain

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultConfirmPollInterval = 2 * time.Second

var _ Client = (*RPCClient)(nil)

// RPCClient wraps ethclient with support for multiple URLs and failover.
type RPCClient struct {
	urls         []string
	clients      []*ethclient.Client
	mu           sync.RWMutex
	current      int
	pollInterval time.Duration
	waitTimeout  time.Duration
}

// NewRPCClient dials every configured URL. Individual dial failures are
// tolerated as long as at least one node is reachable; failed nodes are
// retried on use.
func NewRPCClient(urls []string, pollInterval, waitTimeout time.Duration) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}
	if pollInterval <= 0 {
		pollInterval = defaultConfirmPollInterval
	}

	clients := make([]*ethclient.Client, 0, len(urls))
	for _, url := range urls {
		client, err := ethclient.Dial(url)
		if err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			clients = append(clients, nil)
			continue
		}
		clients = append(clients, client)
	}

	if allClientsNil(clients) {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &RPCClient{
		urls:         urls,
		clients:      clients,
		current:      0,
		pollInterval: pollInterval,
		waitTimeout:  waitTimeout,
	}, nil
}

func allClientsNil(clients []*ethclient.Client) bool {
	for _, client := range clients {
		if client != nil {
			return false
		}
	}
	return true
}

// Close closes all client connections.
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, client := range c.clients {
		if client != nil {
			client.Close()
		}
	}
}

// ChainID returns the chain ID of the connected network.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get RPC client")
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}

	return chainID, nil
}

// BalanceAt returns the native balance of an address at the latest known block.
func (c *RPCClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get RPC client")
	}

	balance, err := client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}

	return balance, nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *RPCClient) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get RPC client")
	}

	nonce, err := client.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}

	return nonce, nil
}

// SuggestGasPrice returns the network's suggested gas price.
func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get RPC client")
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas price")
	}

	return gasPrice, nil
}

// CallContract executes a read-only contract call at the latest block.
func (c *RPCClient) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get RPC client")
	}

	resp, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call contract")
	}

	return resp, nil
}

// SendTransaction broadcasts a signed transaction.
func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	client, err := c.getClient(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get RPC client")
	}

	if err := client.SendTransaction(ctx, tx); err != nil {
		return errors.Wrap(err, "failed to send transaction")
	}

	return nil
}

// WaitMined polls for the transaction receipt until it is available or
// the wait deadline passes.
func (c *RPCClient) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if c.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.waitTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		client, err := c.getClient(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get RPC client")
		}

		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			log.Warn().
				Str("tx_hash", txHash.Hex()).
				Err(err).
				Msg("Receipt poll failed, retrying")
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "gave up waiting for transaction confirmation")
		case <-ticker.C:
		}
	}
}

// getClient returns a health-checked client, trying the remaining
// nodes in order when the current one fails. A connection that fails
// its health check is closed and dropped so the next attempt re-dials
// it instead of reusing the broken transport.
func (c *RPCClient) getClient(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(c.clients); i++ {
		idx := (c.current + i) % len(c.clients)

		client := c.clients[idx]
		if client == nil {
			dialed, err := ethclient.Dial(c.urls[idx])
			if err != nil {
				log.Warn().
					Str("url", c.urls[idx]).
					Err(err).
					Msg("Failed to reconnect to RPC node")
				continue
			}
			client = dialed
			c.clients[idx] = dialed
		}

		if _, err := client.ChainID(ctx); err != nil {
			log.Warn().
				Str("url", c.urls[idx]).
				Err(err).
				Msg("RPC client health check failed, dropping connection")
			client.Close()
			c.clients[idx] = nil
			continue
		}

		c.current = idx
		return client, nil
	}

	return nil, errors.New("all RPC clients are unavailable")
}
