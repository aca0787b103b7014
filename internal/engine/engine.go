// Package engine turns an input Snapshot into a complete output Batch and
// schedules recomputation as inputs change.
package engine

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/mrz1836/hdkit/internal/generator"
	"github.com/mrz1836/hdkit/internal/hdkey"
	"github.com/mrz1836/hdkit/internal/hdpath"
	"github.com/mrz1836/hdkit/internal/metrics"
	"github.com/mrz1836/hdkit/internal/mnemonic"
	"github.com/mrz1836/hdkit/internal/network"
	"github.com/mrz1836/hdkit/internal/secure"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// Logger receives debug output. It must never be handed secrets.
type Logger interface {
	Debug(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Engine computes batches. It holds no per-snapshot state and is safe for
// concurrent use.
type Engine struct {
	codec    *mnemonic.Codec
	registry *network.Registry
	metrics  *metrics.Metrics
	log      Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCodec sets the phrase validator.
func WithCodec(c *mnemonic.Codec) Option {
	return func(e *Engine) { e.codec = c }
}

// WithRegistry sets the network table.
func WithRegistry(r *network.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an Engine using the English wordlist, the default network
// registry, and the global metrics.
func New(opts ...Option) *Engine {
	e := &Engine{
		codec:    mnemonic.NewCodec(),
		registry: network.Default,
		metrics:  metrics.Global,
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs the whole pipeline for snap. Phrase validation problems are
// reported on the batch and do not stop derivation. Everything else fails
// the computation.
func (e *Engine) Compute(snap Snapshot) (*Batch, error) {
	started := time.Now()
	batch, err := e.compute(snap)

	count := 0
	if batch != nil {
		count = len(batch.Records)
	}
	e.metrics.RecordDerivation(snap.Network, count, time.Since(started), kiterr.Code(err), err)

	if err != nil {
		e.log.Debug("compute failed network=%s code=%s", snap.Network, kiterr.Code(err))
		return nil, err
	}
	e.log.Debug("compute ok network=%s path=%s addresses=%d", batch.Network, batch.Path, count)
	return batch, nil
}

func (e *Engine) compute(snap Snapshot) (*Batch, error) {
	netID := snap.Network
	if netID == "" {
		netID = network.Bitcoin
	}
	net, err := e.registry.Lookup(netID)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Network: net.ID}

	root, err := e.root(snap, net, batch)
	if err != nil {
		return nil, err
	}
	batch.RootKey = root.String()
	batch.RootIsPrivate = root.IsPrivate()

	base, err := basePath(snap, net)
	if err != nil {
		return nil, err
	}
	batch.Path = base.String()

	count := snap.Count
	if count == 0 {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidAddressCount, map[string]string{"count": "0"})
	}

	gen, err := generator.New(root, base, snap.HardenedLeaf)
	if err != nil {
		return nil, err
	}
	baseKey := gen.BaseKey()
	if baseKey.IsPrivate() {
		if batch.ExtendedPrivateKey, err = baseKey.Serialize(true); err != nil {
			return nil, err
		}
	}
	batch.ExtendedPublicKey = baseKey.PublicString()

	batch.Records, err = gen.Range(snap.Start, count)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// root resolves the tree root, either from a supplied extended key or from
// the phrase. A supplied key is rebound to net.
func (e *Engine) root(snap Snapshot, net *network.Params, batch *Batch) (*hdkey.ExtendedKey, error) {
	if rootKey := strings.TrimSpace(snap.RootKey); rootKey != "" {
		key, err := hdkey.ParseWith(rootKey, e.registry)
		if err != nil {
			return nil, kiterr.Wrap(err, "root key")
		}
		return key.ForNetwork(net), nil
	}

	if mnemonic.Normalize(snap.Phrase) == "" {
		return nil, kiterr.WithSuggestion(kiterr.ErrNoInput, "supply a mnemonic phrase or a root key")
	}

	if _, err := e.codec.Validate(snap.Phrase); err != nil {
		batch.PhraseError = err
		batch.PhraseWarning = err.Error()
	}

	raw := mnemonic.Seed(snap.Phrase, snap.Passphrase)
	seed := secure.FromSlice(raw)
	secure.Zero(raw)
	defer seed.Destroy()

	batch.Seed = hex.EncodeToString(seed.Bytes())
	return hdkey.NewMaster(seed.Bytes(), net)
}

func basePath(snap Snapshot, net *network.Params) (hdpath.Path, error) {
	switch snap.Mode {
	case ModeBIP32:
		custom := snap.CustomPath
		if strings.TrimSpace(custom) == "" {
			custom = DefaultCustomPath
		}
		return hdpath.Parse(custom)
	case ModeBIP44, "":
		fields := snap.BIP44
		if !snap.CoinSet {
			fields.Coin = net.CoinType
		}
		return fields.Path()
	default:
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{"mode": string(snap.Mode)})
	}
}
