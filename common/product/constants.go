/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2018 CERN and copyright holders of ALICE O².
 * Author: Teo Mrnjavac <teo.mrnjavac@cern.ch>
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 * In applying this license CERN does not waive the privileges and
 * immunities granted to it by virtue of its status as an
 * Intergovernmental Organization or submit itself to any jurisdiction.
 */

// Package product holds the LampControl naming and version constants,
// filled in at build time or recovered from the source checkout.
package product

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

func getExecutableDir() string {
	ex, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(ex)
}

// parseVersionFile reads VERSION_MAJOR := x style lines, as written by the
// Makefile, and returns the three components it finds.
func parseVersionFile(contents string) (major, minor, patch string) {
	for _, line := range strings.Split(contents, "\n") {
		if !strings.HasPrefix(line, "VERSION_") {
			continue
		}
		splitLine := strings.Split(line, ":=")
		if len(splitLine) != 2 {
			return
		}
		value := strings.TrimSpace(splitLine[1])
		switch strings.TrimSpace(splitLine[0]) {
		case "VERSION_MAJOR":
			major = value
		case "VERSION_MINOR":
			minor = value
		case "VERSION_PATCH":
			patch = value
		}
	}
	return
}

func fillVersionFromVersionFile(versionFilePath string) {
	vfContents, err := os.ReadFile(versionFilePath)
	if err != nil {
		return
	}
	major, minor, patch := parseVersionFile(string(vfContents))
	if len(major) > 0 {
		VERSION_MAJOR = major
	}
	if len(minor) > 0 {
		VERSION_MINOR = minor
	}
	if len(patch) > 0 {
		VERSION_PATCH = patch
	}
}

// buildFromGit is the equivalent of git rev-parse --short HEAD
func buildFromGit(localRepoPath string) string {
	r, err := git.PlainOpenWithOptions(localRepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "" // all of this is best-effort
	}

	h, err := r.ResolveRevision(plumbing.Revision("HEAD"))
	if err != nil {
		return ""
	}
	return h.String()[:7]
}

func init() {
	// If lampd was built with go build directly instead of make.
	if VERSION_MAJOR == "0" &&
		VERSION_MINOR == "0" &&
		VERSION_PATCH == "0" &&
		BUILD == "" {
		basePath := filepath.Dir(getExecutableDir())
		versionFilePath := filepath.Join(basePath, "VERSION")

		if _, err := os.Stat(versionFilePath); err == nil {
			fillVersionFromVersionFile(versionFilePath)
		}

		BUILD = buildFromGit(basePath)
	}

	VERSION = strings.Join([]string{VERSION_MAJOR, VERSION_MINOR, VERSION_PATCH}, ".")
	VERSION_SHORT = VERSION
	VERSION_BUILD = VERSION
	if len(BUILD) > 0 {
		VERSION_BUILD = strings.Join([]string{VERSION, BUILD}, "-")
	}
}

var ( // Acquired from -ldflags="-X=..." in Makefile
	VERSION_MAJOR = "0"
	VERSION_MINOR = "0"
	VERSION_PATCH = "0"
	BUILD         = ""
)

var (
	NAME             = "lampcontrol"
	PRETTY_SHORTNAME = "LampControl"
	PRETTY_FULLNAME  = "Lamp Control System"
	VERSION          string
	VERSION_SHORT    string
	VERSION_BUILD    string
)
