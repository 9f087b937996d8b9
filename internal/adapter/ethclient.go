package adapter

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthClient defines an interface for Ethereum client operations to enable mocking
//
//go:generate mockgen -source=ethclient.go -destination=../mocks/ethclient.go -package=mocks -mock_names=EthClient=MockEthClient
type EthClient interface {
	// CallContract executes a read-only contract call
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)

	// TransactionReceiptStatus returns the status of a mined transaction, or
	// an error when the transaction is still pending or unknown
	TransactionReceiptStatus(ctx context.Context, txHash common.Hash) (uint64, error)

	// Close closes the connection
	Close()
}

// RealEthClient wraps the standard ethclient
type RealEthClient struct {
	client *ethclient.Client
}

// DialEthClient connects to an Ethereum RPC endpoint
func DialEthClient(ctx context.Context, rawurl string) (EthClient, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return &RealEthClient{client: client}, nil
}

func (c *RealEthClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.client.CallContract(ctx, msg, blockNumber)
}

func (c *RealEthClient) TransactionReceiptStatus(ctx context.Context, txHash common.Hash) (uint64, error) {
	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		return 0, err
	}
	return receipt.Status, nil
}

func (c *RealEthClient) Close() {
	c.client.Close()
}
