package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/mergeguard"
	"github.com/rs/zerolog/log"
)

// Compile-time interface verification.
var _ mergeguard.Reasoner = (*Reasoner)(nil)

// Reasoner wraps a mergeguard.Reasoner with file-based caching. Only
// resolutions that pass validation are cached.
type Reasoner struct {
	inner     mergeguard.Reasoner
	cacheDir  string
	namespace string
}

// NewReasoner creates a new caching reasoner. namespace separates entries
// produced by different models.
func NewReasoner(inner mergeguard.Reasoner, cacheDir, namespace string) *Reasoner {
	return &Reasoner{
		inner:     inner,
		cacheDir:  cacheDir,
		namespace: namespace,
	}
}

// Analyze returns a cached resolution or delegates to the inner reasoner.
func (r *Reasoner) Analyze(ctx context.Context, bundle mergeguard.ConflictContext) (*mergeguard.Resolution, error) {
	key := r.key(bundle)

	if cached, err := r.load(key); err == nil {
		log.Debug().Str("path", bundle.OldPath).Str("key", key[:12]).Msg("resolution cache hit")
		return cached, nil
	}

	result, err := r.inner.Analyze(ctx, bundle)
	if err != nil || result == nil {
		return result, err
	}

	if mergeguard.ValidateResolution(*result) == nil {
		if err := r.save(key, result); err != nil {
			log.Warn().Err(err).Msg("failed to cache resolution")
		}
	}
	return result, nil
}

func (r *Reasoner) key(bundle mergeguard.ConflictContext) string {
	data, _ := json.Marshal(bundle)
	h := sha256.New()
	h.Write([]byte(r.namespace))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (r *Reasoner) path(key string) string {
	return filepath.Join(r.cacheDir, key+".json")
}

func (r *Reasoner) load(key string) (*mergeguard.Resolution, error) {
	data, err := os.ReadFile(r.path(key))
	if err != nil {
		return nil, err
	}

	var result mergeguard.Resolution
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	if err := mergeguard.ValidateResolution(result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Reasoner) save(key string, result *mergeguard.Resolution) error {
	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return os.WriteFile(r.path(key), data, 0o644)
}
