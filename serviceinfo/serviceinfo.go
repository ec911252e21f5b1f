// Package serviceinfo caches the platform service-info document: the set of
// endpoint URLs, platform instances and configuration values a client needs
// before it can talk to the health-record platform. The document changes
// rarely, is requested constantly, and tolerates being a little stale, which
// makes it the natural tenant for a lazycache.Cache.
package serviceinfo

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Info is the service-info document as returned by the platform.
type Info struct {
	XMLName         xml.Name      `xml:"service-info"`
	PlatformURL     string        `xml:"platform>url"`
	PlatformVersion string        `xml:"platform>version"`
	ShellURL        string        `xml:"shell>url"`
	Configuration   []ConfigValue `xml:"configuration>entry"`
	Instances       []Instance    `xml:"instances>instance"`
	LastUpdated     time.Time     `xml:"updated-date"`
}

// ConfigValue is a single platform configuration setting.
type ConfigValue struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// Instance describes one platform instance a client can be bound to.
type Instance struct {
	ID          string `xml:"id"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
	PlatformURL string `xml:"platform-url"`
	ShellURL    string `xml:"shell-url"`
}

// ConfigurationValue returns the configuration setting for key. The second
// return value reports whether the key was present.
func (i *Info) ConfigurationValue(key string) (string, bool) {
	for _, cv := range i.Configuration {
		if cv.Key == key {
			return cv.Value, true
		}
	}

	return "", false
}

// Instance returns the platform instance with the given id, or nil.
func (i *Info) Instance(id string) *Instance {
	for idx := range i.Instances {
		if i.Instances[idx].ID == id {
			return &i.Instances[idx]
		}
	}

	return nil
}

// Parse decodes a service-info document from its XML wire form.
func Parse(data []byte) (*Info, error) {
	var info Info
	if err := xml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decoding service info: %w", err)
	}

	return &info, nil
}

// Marshal encodes the document back to its XML wire form.
func (i *Info) Marshal() ([]byte, error) {
	data, err := xml.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("encoding service info: %w", err)
	}

	return data, nil
}
