package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/paperpilot/internal/config"
)

type PreferencesStore string

func (s *PreferencesStore) Set(val string) error {
	for _, store := range allPreferencesStores {
		if val == string(store) {
			*s = store
			return nil
		}
	}
	return fmt.Errorf("invalid preferences store: %s", val)
}

func (s PreferencesStore) String() string {
	return string(s)
}

func (s *PreferencesStore) Type() string {
	return "PreferencesStore"
}

const (
	PreferencesStoreFile   PreferencesStore = config.PreferencesStoreFile
	PreferencesStoreMySQL  PreferencesStore = config.PreferencesStoreMySQL
	PreferencesStoreSQLite PreferencesStore = config.PreferencesStoreSQLite
)

var (
	_                    pflag.Value = (*PreferencesStore)(nil)
	allPreferencesStores             = []PreferencesStore{PreferencesStoreFile, PreferencesStoreMySQL, PreferencesStoreSQLite}
)

// addStoreFlag registers --store; an empty value means the configured store.
func addStoreFlag(flags *pflag.FlagSet, store *PreferencesStore) {
	flags.Var(store, "store", fmt.Sprintf("preferences store to use instead of the configured one. Possible values are %v", allPreferencesStores))
}

func resolveStore(flag PreferencesStore, cfg *config.Config) PreferencesStore {
	if flag != "" {
		return flag
	}
	return PreferencesStore(cfg.Preferences.Store)
}
