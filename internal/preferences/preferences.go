// Package preferences stores the reader's settings in a key-value store and
// always reads them merged over the defaults.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/at-ishikawa/paperpilot/internal/validation"
)

const (
	KeyMaxDefinitions         = "maxDefinitions"
	KeyArxivMaxResults        = "arxivMaxResults"
	KeyEnableOverlayByDefault = "enableOverlayByDefault"

	MinMaxDefinitions  = 1
	MaxMaxDefinitions  = 5
	MinArxivMaxResults = 5
	MaxArxivMaxResults = 50
)

type Preferences struct {
	MaxDefinitions         int  `json:"maxDefinitions" yaml:"maxDefinitions" validate:"min=1,max=5"`
	ArxivMaxResults        int  `json:"arxivMaxResults" yaml:"arxivMaxResults" validate:"min=5,max=50"`
	EnableOverlayByDefault bool `json:"enableOverlayByDefault" yaml:"enableOverlayByDefault"`
}

func Defaults() Preferences {
	return Preferences{
		MaxDefinitions:         2,
		ArxivMaxResults:        10,
		EnableOverlayByDefault: true,
	}
}

// Update is a partial write; nil fields keep their stored value.
type Update struct {
	MaxDefinitions         *int  `json:"maxDefinitions,omitempty"`
	ArxivMaxResults        *int  `json:"arxivMaxResults,omitempty"`
	EnableOverlayByDefault *bool `json:"enableOverlayByDefault,omitempty"`
}

func (u Update) apply(p Preferences) Preferences {
	if u.MaxDefinitions != nil {
		p.MaxDefinitions = *u.MaxDefinitions
	}
	if u.ArxivMaxResults != nil {
		p.ArxivMaxResults = *u.ArxivMaxResults
	}
	if u.EnableOverlayByDefault != nil {
		p.EnableOverlayByDefault = *u.EnableOverlayByDefault
	}
	return p
}

func (u Update) values() map[string]string {
	values := make(map[string]string, 3)
	if u.MaxDefinitions != nil {
		values[KeyMaxDefinitions] = strconv.Itoa(*u.MaxDefinitions)
	}
	if u.ArxivMaxResults != nil {
		values[KeyArxivMaxResults] = strconv.Itoa(*u.ArxivMaxResults)
	}
	if u.EnableOverlayByDefault != nil {
		values[KeyEnableOverlayByDefault] = strconv.FormatBool(*u.EnableOverlayByDefault)
	}
	return values
}

// Clamp pulls out-of-range values back into range, the way the options form does.
func (p Preferences) Clamp() Preferences {
	p.MaxDefinitions = clamp(p.MaxDefinitions, MinMaxDefinitions, MaxMaxDefinitions)
	p.ArxivMaxResults = clamp(p.ArxivMaxResults, MinArxivMaxResults, MaxArxivMaxResults)
	return p
}

func clamp(v, low, high int) int {
	return max(low, min(high, v))
}

var ErrInvalid = errors.New("invalid preferences")

// Store is the settings area. Save writes only the keys it is given.
type Store interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
}

type Service struct {
	store Store

	validatorOnce sync.Once
	validator     *validation.Validator
	validatorErr  error
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get reads the stored values over the defaults. Unparseable or out-of-range
// stored values fall back to their default.
func (s *Service) Get(ctx context.Context) (Preferences, error) {
	values, err := s.store.Load(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("store.Load > %w", err)
	}
	return merge(Defaults(), values), nil
}

// Set validates the merged result and persists only the fields in update.
func (s *Service) Set(ctx context.Context, update Update) error {
	current, err := s.Get(ctx)
	if err != nil {
		return err
	}
	v, err := s.getValidator()
	if err != nil {
		return err
	}
	if err := v.Struct(update.apply(current)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	values := update.values()
	if len(values) == 0 {
		return nil
	}
	if err := s.store.Save(ctx, values); err != nil {
		return fmt.Errorf("store.Save > %w", err)
	}
	return nil
}

func (s *Service) getValidator() (*validation.Validator, error) {
	s.validatorOnce.Do(func() {
		s.validator, s.validatorErr = validation.New("json")
	})
	return s.validator, s.validatorErr
}

func merge(p Preferences, values map[string]string) Preferences {
	if v, ok := values[KeyMaxDefinitions]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= MinMaxDefinitions && n <= MaxMaxDefinitions {
			p.MaxDefinitions = n
		} else {
			slog.Default().Warn("ignoring stored preference", "key", KeyMaxDefinitions, "value", v)
		}
	}
	if v, ok := values[KeyArxivMaxResults]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= MinArxivMaxResults && n <= MaxArxivMaxResults {
			p.ArxivMaxResults = n
		} else {
			slog.Default().Warn("ignoring stored preference", "key", KeyArxivMaxResults, "value", v)
		}
	}
	if v, ok := values[KeyEnableOverlayByDefault]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			p.EnableOverlayByDefault = b
		} else {
			slog.Default().Warn("ignoring stored preference", "key", KeyEnableOverlayByDefault, "value", v)
		}
	}
	return p
}
