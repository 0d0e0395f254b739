package main

import (
	"github.com/coreos/fero/config"
	"github.com/coreos/fero/dispatcher"
	"github.com/coreos/fero/hsm"
	"github.com/coreos/fero/keyring"
	"github.com/coreos/fero/store"
)

// connection bundles the collaborators every subcommand needs, torn
// down together with Close.
type connection struct {
	Store      *store.Store
	Gateway    *hsm.Gateway
	Keyring    *keyring.Keyring
	Dispatcher *dispatcher.Dispatcher
}

// connect opens the persisted store and the HSM session config.Config
// describes, following the same order main's original startup sequence
// used: config, then store, then the device session.
//
// No real HSM wire driver ships with this service (§1: the vendor
// transport is explicitly out of scope); hsm.NewDevTransport backs
// every invocation instead. It is a genuine in-process software
// implementation of the Transport interface, useful for exercising this
// binary end to end, but it holds no state across process restarts. A
// production deployment supplies a real hsm.Transport here in place of
// the dev one — everything above this line is unaffected by that swap.
func connect() (*connection, error) {
	st, err := store.Open(config.Config.DatabaseUrl)
	if err != nil {
		return nil, err
	}

	if err = st.Migrate(); err != nil {
		return nil, err
	}
	if err = st.Bootstrap(); err != nil {
		return nil, err
	}

	transport := hsm.NewDevTransport()

	gw, err := hsm.Open(transport, config.Config.HsmAuthkeyId, config.Config.HsmPassword)
	if err != nil {
		return nil, err
	}

	kr := keyring.New(st)
	disp := dispatcher.New(gw, st, kr)

	return &connection{
		Store:      st,
		Gateway:    gw,
		Keyring:    kr,
		Dispatcher: disp,
	}, nil
}

func (c *connection) Close() {
	c.Gateway.Close()
	c.Store.Close()
}
