// File: internal/driver/kind.go
package driver

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported browsers. The zero value is invalid.
type Kind int

const (
	Chrome Kind = iota + 1
	Firefox
	Edge
	InternetExplorer
	Opera
	Safari
)

// kindInfo is the static description of a browser kind.
type kindInfo struct {
	name        string
	binary      string
	browserName string
}

var kinds = map[Kind]kindInfo{
	Chrome:           {name: "chrome", binary: "chromedriver", browserName: "chrome"},
	Firefox:          {name: "firefox", binary: "geckodriver", browserName: "firefox"},
	Edge:             {name: "edge", binary: "msedgedriver", browserName: "MicrosoftEdge"},
	InternetExplorer: {name: "internet_explorer", binary: "IEDriverServer", browserName: "internet explorer"},
	Opera:            {name: "opera", binary: "operadriver", browserName: "opera"},
	Safari:           {name: "safari", binary: "safaridriver", browserName: "safari"},
}

var aliases = map[string]Kind{
	"ie":                InternetExplorer,
	"internet-explorer": InternetExplorer,
	"internetexplorer":  InternetExplorer,
	"msedge":            Edge,
	"microsoftedge":     Edge,
	"gecko":             Firefox,
	"googlechrome":      Chrome,
}

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{Chrome, Firefox, Edge, InternetExplorer, Opera, Safari}
}

// ParseKind maps a browser name to its Kind, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, info := range kinds {
		if info.name == name {
			return k, nil
		}
	}
	if k, ok := aliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBrowser, s)
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// String returns the canonical config name of the kind.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BinaryName returns the driver executable name for k on the given OS.
func (k Kind) BinaryName(osName string) (string, error) {
	info, ok := kinds[k]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedBrowser, k)
	}
	if strings.EqualFold(osName, "windows") {
		return info.binary + ".exe", nil
	}
	return info.binary, nil
}

// BrowserName is the W3C browserName capability for k.
func (k Kind) BrowserName() string {
	return kinds[k].browserName
}
