package config

import (
	"encoding/json"
	"io/ioutil"

	"github.com/coreos/fero/constants"
	"github.com/coreos/fero/errortypes"
	"github.com/dropbox/godropbox/errors"
)

var (
	Config = &ConfigData{}
)

// ConfigData is the server's on-disk configuration. It is loaded once at
// startup; nothing in the request path mutates it.
type ConfigData struct {
	path   string `json:"-"`
	loaded bool   `json:"-"`

	// ListenAddress is where the gRPC service (§6) accepts connections.
	ListenAddress string `json:"listen_address"`

	// DatabaseUrl is a libpq connection string for the persisted state
	// layout (§6).
	DatabaseUrl string `json:"database_url"`

	// HsmConnectorUrl names the HSM transport endpoint (opaque per §6).
	// No code in this module reads it: the device transport is in-process.
	HsmConnectorUrl string `json:"hsm_connector_url"`

	// HsmAuthkeyId is the application authkey object id created by
	// `fero provision`.
	HsmAuthkeyId uint16 `json:"hsm_authkey_id"`

	// HsmPassword authenticates the application authkey session.
	HsmPassword string `json:"hsm_password"`

	// LogLevel is one of logrus's level names ("info", "debug", ...).
	LogLevel string `json:"log_level"`
}

func (c *ConfigData) Save() (err error) {
	if !c.loaded {
		err = &errortypes.WriteError{
			DropboxError: errors.New("config: Config file has not been loaded"),
		}
		return
	}

	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "config: File marshal error"),
		}
		return
	}

	err = ioutil.WriteFile(constants.ConfPath, data, 0600)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "config: File write error"),
		}
		return
	}

	return
}

func Load() (err error) {
	data := &ConfigData{
		ListenAddress: constants.DefaultListenAddress,
		HsmAuthkeyId:  constants.DefaultHsmAuthkeyId,
		LogLevel:      "info",
	}

	file, err := ioutil.ReadFile(constants.ConfPath)
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "config: File read error"),
		}
		return
	}

	err = json.Unmarshal(file, data)
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "config: File unmarshal error"),
		}
		return
	}

	if data.DatabaseUrl == "" {
		err = &errortypes.ReadError{
			DropboxError: errors.New("config: database_url is required"),
		}
		return
	}

	data.loaded = true

	Config = data

	return
}

func Save() (err error) {
	return Config.Save()
}

func Init() (err error) {
	return Load()
}
