package cmd

import (
	"time"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// client calls the public API of a node.
type client struct {
	http *resty.Client
}

func newClient(url string, timeout time.Duration) *client {
	return &client{
		http: resty.New().
			SetBaseURL(url).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type txRequest struct {
	FromAddress string  `json:"fromAddress"`
	ToAddress   string  `json:"toAddress"`
	Amount      float64 `json:"amount"`
	Timestamp   int64   `json:"timestamp"`
	Signature   string  `json:"signature"`
}

type txResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	TransactionHash string `json:"transactionHash"`
}

type balanceResponse struct {
	Address string  `json:"address"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type mineResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Block   database.Block `json:"block"`
	Reward  float64        `json:"reward"`
}

// submit sends a signed transaction to the node.
func (c *client) submit(tx database.Tx) (txResponse, error) {
	req := txRequest{
		FromAddress: tx.FromAddress,
		ToAddress:   tx.ToAddress,
		Amount:      tx.Amount,
		Timestamp:   tx.Timestamp,
		Signature:   tx.Signature,
	}

	var resp txResponse
	if err := c.call(c.http.R().SetBody(req).SetResult(&resp), "POST", "/v1/transaction"); err != nil {
		return txResponse{}, errors.WithMessage(err, "submitting transaction")
	}

	return resp, nil
}

// balance returns the confirmed balance for the address.
func (c *client) balance(address string) (balanceResponse, error) {
	var resp balanceResponse
	req := c.http.R().SetPathParam("address", address).SetResult(&resp)
	if err := c.call(req, "GET", "/v1/balance/{address}"); err != nil {
		return balanceResponse{}, errors.WithMessage(err, "querying balance")
	}

	return resp, nil
}

// mine asks the node to mine the pending transactions and waits for the block.
func (c *client) mine(minerAddress string) (mineResponse, error) {
	body := struct {
		MinerAddress string `json:"minerAddress"`
	}{
		MinerAddress: minerAddress,
	}

	var resp mineResponse
	if err := c.call(c.http.R().SetBody(body).SetResult(&resp), "POST", "/v1/mine"); err != nil {
		return mineResponse{}, errors.WithMessage(err, "mining")
	}

	return resp, nil
}

// call executes the request and turns an error response from the node into
// an error value.
func (c *client) call(req *resty.Request, method string, path string) error {
	var apiErr apiError
	req.SetError(&apiErr)

	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	if resp.IsError() {
		if apiErr.Error == "" {
			return errors.Errorf("%s %s: %s", method, path, resp.Status())
		}
		if len(apiErr.Fields) > 0 {
			return errors.Errorf("%s: %v", apiErr.Error, apiErr.Fields)
		}
		return errors.New(apiErr.Error)
	}

	return nil
}
