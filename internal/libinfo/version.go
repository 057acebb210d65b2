/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package libinfo reports the version of this module as seen in the build info of the running binary.
package libinfo

import (
	"debug/buildinfo"
	"regexp"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const modulePath = "github.com/acronis/go-memocache"

// PrometheusVersionLabel is the const label attached to every metric exposed by the module.
const PrometheusVersionLabel = "go_memocache_version"

const unknownVersion = "v0.0.0"

var (
	version     string
	versionOnce sync.Once
)

// Version returns the version of the module the binary was built with, or "v0.0.0" if it is unknown.
func Version() string {
	versionOnce.Do(func() {
		if bi, ok := debug.ReadBuildInfo(); ok {
			version = moduleVersion(bi, modulePath)
		}
		if version == "" || version == "(devel)" {
			version = unknownVersion
		}
	})
	return version
}

// WithVersionLabel returns a copy of labels extended with the module version label.
func WithVersionLabel(labels prometheus.Labels) prometheus.Labels {
	res := make(prometheus.Labels, len(labels)+1)
	for name, val := range labels {
		res[name] = val
	}
	res[PrometheusVersionLabel] = Version()
	return res
}

// moduleVersion looks for path (optionally with a "/vN" major version suffix)
// among the main module and the dependencies listed in bi.
func moduleVersion(bi *buildinfo.BuildInfo, path string) string {
	if bi == nil {
		return ""
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(path) + `(/v[0-9]+)?$`)
	if re.MatchString(bi.Main.Path) {
		return bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if re.MatchString(dep.Path) {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return ""
}
