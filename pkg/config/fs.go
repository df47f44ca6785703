// Package config resolves the settings of a sync run from the defaults, the
// optional YAML config file, and the command line.
package config

import "github.com/spf13/afero"

// fs is used for mock tests. It will be overridden by afero.NewMemMapFs()
// in the tests.
var fs = afero.NewOsFs()
