package files

import (
	"path"
	"path/filepath"
	"strings"
)

// EnvelopePath is where the envelope for src is written: src plus suffix,
// placed in outDir when one is given.
func EnvelopePath(src, suffix, outDir string) string {
	if outDir == "" {
		return src + suffix
	}
	return join(outDir, baseName(src)+suffix)
}

// PlaintextPath is where an opened envelope is written. The name recorded in
// the header wins; if it is unusable the suffix is stripped from the
// envelope's own name. The result always stays inside outDir, or inside the
// envelope's directory when outDir is empty.
func PlaintextPath(envelopePath, headerFileName, suffix, outDir string) string {
	name := SafeFileName(headerFileName)
	if name == "" {
		base := baseName(envelopePath)
		name = strings.TrimSuffix(base, suffix)
		if name == base || name == "" {
			name = base + ".decrypted"
		}
	}

	if outDir == "" {
		outDir = dirName(envelopePath)
	}
	return join(outDir, name)
}

// SafeFileName reduces a recorded file name to a bare base name. It returns
// "" for names that cannot be used as one.
func SafeFileName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimRight(name, "/")
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	if strings.ContainsFunc(base, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return ""
	}
	return base
}

func baseName(location string) string {
	if IsRemote(location) {
		return path.Base(location)
	}
	return filepath.Base(location)
}

func dirName(location string) string {
	if IsRemote(location) {
		return RemotePrefix + path.Dir(strings.TrimPrefix(location, RemotePrefix))
	}
	return filepath.Dir(location)
}

func join(dir, name string) string {
	if IsRemote(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}
