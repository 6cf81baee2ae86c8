package share

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single remote store call.
const DefaultTimeout = 5 * time.Second

// Options configures a Sharer.
type Options struct {
	// Timeout bounds each remote call. Zero means DefaultTimeout.
	Timeout time.Duration
	// TTL expires datasets older than this. Zero keeps them forever.
	TTL time.Duration
	// Logger receives fallback warnings. Nil discards them.
	Logger *zap.Logger
}

// Sharer stores datasets in a remote store, falling back to a local one.
type Sharer struct {
	remote  Store
	local   Store
	timeout time.Duration
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewSharer creates a Sharer. Either store may be nil, but not both.
func NewSharer(remote, local Store, opts Options) (*Sharer, error) {
	if remote == nil && local == nil {
		return nil, errors.New("share: at least one store is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Sharer{
		remote:  remote,
		local:   local,
		timeout: opts.Timeout,
		ttl:     opts.TTL,
		logger:  opts.Logger,
		now:     time.Now,
	}, nil
}

// Share stores ds under a new id. The remote store is tried once; on failure
// the local store is used. ErrShareFailed is returned only if both fail.
func (s *Sharer) Share(ctx context.Context, ds models.SharedDataset) (string, error) {
	if ds.Timestamp.IsZero() {
		ds.Timestamp = s.now().UTC()
	}
	blob, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("encoding shared dataset: %w", err)
	}
	id := uuid.NewString()

	var remoteErr error
	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		remoteErr = s.remote.Put(rctx, id, blob)
		cancel()
		if remoteErr == nil {
			s.logger.Debug("shared dataset remotely", zap.String("id", id), zap.Int("bytes", len(blob)))
			return id, nil
		}
		s.logger.Warn("remote share failed, using local store", zap.String("id", id), zap.Error(remoteErr))
	}

	if s.local == nil {
		return "", errors.Join(ErrShareFailed, remoteErr)
	}
	if localErr := s.local.Put(ctx, id, blob); localErr != nil {
		return "", errors.Join(ErrShareFailed, remoteErr, localErr)
	}
	s.logger.Debug("shared dataset locally", zap.String("id", id), zap.Int("bytes", len(blob)))
	return id, nil
}

// Open loads the dataset stored under id, trying the remote store first.
// Missing and expired datasets yield ErrNotFound.
func (s *Sharer) Open(ctx context.Context, id string) (models.SharedDataset, error) {
	var remoteErr error
	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		blob, err := s.remote.Get(rctx, id)
		cancel()
		if err == nil {
			return s.decode(ctx, s.remote, id, blob)
		}
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("remote lookup failed, trying local store", zap.String("id", id), zap.Error(err))
			remoteErr = err
		}
	}

	if s.local != nil {
		blob, err := s.local.Get(ctx, id)
		if err == nil {
			return s.decode(ctx, s.local, id, blob)
		}
		if !errors.Is(err, ErrNotFound) {
			return models.SharedDataset{}, errors.Join(err, remoteErr)
		}
	}
	if remoteErr != nil {
		return models.SharedDataset{}, errors.Join(ErrNotFound, remoteErr)
	}
	return models.SharedDataset{}, ErrNotFound
}

// Delete removes id from every configured store.
func (s *Sharer) Delete(ctx context.Context, id string) error {
	var errs []error
	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		errs = append(errs, s.remote.Delete(rctx, id))
		cancel()
	}
	if s.local != nil {
		errs = append(errs, s.local.Delete(ctx, id))
	}
	return errors.Join(errs...)
}

func (s *Sharer) decode(ctx context.Context, from Store, id string, blob []byte) (models.SharedDataset, error) {
	var probe struct {
		Org json.RawMessage `json:"organizationData"`
	}
	if err := json.Unmarshal(blob, &probe); err != nil {
		return models.SharedDataset{}, &DecodeError{Step: "json", Err: err}
	}
	if len(probe.Org) == 0 || bytes.Equal(probe.Org, []byte("null")) {
		return models.SharedDataset{}, &DecodeError{Step: "validate", Err: errMissingOrg}
	}

	var ds models.SharedDataset
	if err := json.Unmarshal(blob, &ds); err != nil {
		return models.SharedDataset{}, &DecodeError{Step: "json", Err: err}
	}

	if s.ttl > 0 && s.now().Sub(ds.Timestamp) > s.ttl {
		dctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := from.Delete(dctx, id)
		cancel()
		if err != nil {
			s.logger.Debug("failed to evict expired dataset", zap.String("id", id), zap.Error(err))
		}
		return models.SharedDataset{}, ErrNotFound
	}
	return ds, nil
}

// TokenFor encodes ds as a URL token.
func TokenFor(ds models.SharedDataset) (string, error) {
	return EncodeToken(Payload{Org: ds.OrganizationData, People: ds.PeopleData, Name: ds.Name})
}

// DatasetFromToken decodes a URL token into a dataset stamped with now.
func DatasetFromToken(token string, now time.Time) (models.SharedDataset, error) {
	p, err := DecodeToken(token)
	if err != nil {
		return models.SharedDataset{}, err
	}
	return models.SharedDataset{
		OrganizationData: p.Org,
		PeopleData:       p.People,
		Name:             p.Name,
		Timestamp:        now,
	}, nil
}
