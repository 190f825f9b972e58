// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txlookup resolves a transaction by txid for the signature and
// fee checks wire.Tx.Verify performs. It is the core's only non-deterministic
// dependency: an HTTP-backed fetcher for production use, and an in-memory
// fake for tests.
package txlookup

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/decred/dcrd/lru"

	"github.com/toole-brendan/shell/chaincfg/chainhash"
	"github.com/toole-brendan/shell/wire"
)

// ErrorKind classifies a TxLookup failure.
type ErrorKind int

const (
	ErrNotFound ErrorKind = iota
	ErrBadEncoding
	ErrTxidMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNotFound:
		return "not found"
	case ErrBadEncoding:
		return "bad encoding"
	case ErrTxidMismatch:
		return "txid mismatch"
	default:
		return "unknown lookup error"
	}
}

// LookupError reports why a fetch failed, so callers (and wire.Tx.Verify)
// can distinguish a transient network failure from a malformed response.
type LookupError struct {
	Kind ErrorKind
	Txid string
}

func (e LookupError) Error() string {
	return fmt.Sprintf("txlookup: %s: %s", e.Kind, e.Txid)
}

// Fetcher fetches a transaction's raw serialized bytes from a block
// explorer, keyed by its hex txid. HTTPFetcher is the production
// implementation; tests substitute an in-memory fake.
type Fetcher interface {
	FetchRaw(txidHex string, testnet bool) ([]byte, error)
}

// HTTPFetcher fetches raw transaction bytes from a block-explorer endpoint
// of the shape used throughout the retrieval pack's SPV tooling:
// GET {baseURL}/tx/{txid}.hex (testnet selects a different baseURL).
type HTTPFetcher struct {
	Client         *http.Client
	MainnetBaseURL string
	TestnetBaseURL string
}

// NewHTTPFetcher returns an HTTPFetcher pointed at the given block-explorer
// base URLs, using http.DefaultClient if client is nil.
func NewHTTPFetcher(mainnetBaseURL, testnetBaseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client, MainnetBaseURL: mainnetBaseURL, TestnetBaseURL: testnetBaseURL}
}

func (f *HTTPFetcher) FetchRaw(txidHex string, testnet bool) ([]byte, error) {
	base := f.MainnetBaseURL
	if testnet {
		base = f.TestnetBaseURL
	}
	url := fmt.Sprintf("%s/tx/%s.hex", base, txidHex)

	resp, err := f.Client.Get(url)
	if err != nil {
		return nil, LookupError{Kind: ErrNotFound, Txid: txidHex}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, LookupError{Kind: ErrNotFound, Txid: txidHex}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, LookupError{Kind: ErrBadEncoding, Txid: txidHex}
	}
	raw, err := hex.DecodeString(string(bytes.TrimSpace(body)))
	if err != nil {
		return nil, LookupError{Kind: ErrBadEncoding, Txid: txidHex}
	}
	return raw, nil
}

// Cache is a process-wide, txid-keyed lookup cache in front of a Fetcher.
// A fresh read bypasses the cache lookup but still populates it, so a
// caller can force a refetch without losing the cache's dedup behavior.
// Concurrent fetches for the same txid are serialized so only one ever
// hits the underlying Fetcher.
type Cache struct {
	fetcher Fetcher
	entries *lru.Map[string, *wire.Tx]

	mu       sync.Mutex
	inFlight map[string]*sync.WaitGroup
}

// NewCache wraps fetcher with an LRU cache holding up to limit entries.
func NewCache(fetcher Fetcher, limit uint) *Cache {
	return &Cache{
		fetcher:  fetcher,
		entries:  lru.NewMap[string, *wire.Tx](limit),
		inFlight: make(map[string]*sync.WaitGroup),
	}
}

// Fetch implements wire.TxLookup.
func (c *Cache) Fetch(txidHex string, testnet, fresh bool) (*wire.Tx, error) {
	if !fresh {
		if tx, ok := c.entries.Get(txidHex); ok {
			return tx, nil
		}
	}

	c.mu.Lock()
	if wg, pending := c.inFlight[txidHex]; pending {
		c.mu.Unlock()
		wg.Wait()
		if tx, ok := c.entries.Get(txidHex); ok {
			return tx, nil
		}
		return nil, LookupError{Kind: ErrNotFound, Txid: txidHex}
	}
	wg := &sync.WaitGroup{}
	wg.Add(1)
	c.inFlight[txidHex] = wg
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, txidHex)
		c.mu.Unlock()
		wg.Done()
	}()

	tx, err := c.fetchAndVerify(txidHex, testnet)
	if err != nil {
		log.Debugf("fetch %s failed: %v", txidHex, err)
		return nil, err
	}
	log.Tracef("cached tx %s", txidHex)
	c.entries.Put(txidHex, tx)
	return tx, nil
}

func (c *Cache) fetchAndVerify(txidHex string, testnet bool) (*wire.Tx, error) {
	raw, err := c.fetcher.FetchRaw(txidHex, testnet)
	if err != nil {
		return nil, err
	}

	tx, err := wire.Deserialize(bytes.NewReader(raw))
	if err != nil {
		return nil, LookupError{Kind: ErrBadEncoding, Txid: txidHex}
	}
	tx.Testnet = testnet

	gotID, err := tx.ID()
	if err != nil {
		return nil, LookupError{Kind: ErrBadEncoding, Txid: txidHex}
	}
	wantID, err := chainhash.NewHashFromStr(txidHex)
	if err != nil {
		return nil, LookupError{Kind: ErrBadEncoding, Txid: txidHex}
	}
	if gotID != wantID {
		return nil, LookupError{Kind: ErrTxidMismatch, Txid: txidHex}
	}
	return tx, nil
}
