package util

import "github.com/spf13/afero"

var osFs = afero.NewOsFs()
