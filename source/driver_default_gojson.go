// Package source installs the go-json driver as the process default.
// Importing it (usually blank) switches JSONBytes/JSONReader from the
// encoding/json fallback to goccy/go-json.
package source

import (
	dynaprop "github.com/reoring/dynaprop"
	drvgojson "github.com/reoring/dynaprop/source/gojson"
)

// init in a separate package to avoid an import cycle with the root.
func init() { dynaprop.SetJSONDriver(drvgojson.Driver()) }
