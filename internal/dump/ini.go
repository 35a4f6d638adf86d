package dump

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// IniFile is a parsed manifest: section name to keys. Keys before the first header belong to "".
type IniFile struct {
	Sections map[string]map[string]string
}

func NewIniFile() *IniFile {
	return &IniFile{Sections: make(map[string]map[string]string)}
}

// ParseIni reads a manifest. Lines starting with ';' or '#' are skipped; a key keeps everything
// after its first '='. A header without a closing bracket or a line without '=' is an error.
func ParseIni(r io.Reader) (*IniFile, error) {
	ini := NewIniFile()
	section := ""
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", line[0] == ';', line[0] == '#':
		case line[0] == '[':
			name, ok := strings.CutSuffix(line[1:], "]")
			if !ok {
				return nil, fmt.Errorf("%w: line %d: unterminated section %q", ErrBadValue, n, line)
			}
			section = strings.TrimSpace(name)
			if _, ok := ini.Sections[section]; !ok {
				ini.Sections[section] = make(map[string]string)
			}
		default:
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, fmt.Errorf("%w: line %d: %q is not key=value", ErrBadValue, n, line)
			}
			ini.Set(section, strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ini: %w", err)
	}
	return ini, nil
}

// GetSection returns the keys of section, nil when it is absent.
func (ini *IniFile) GetSection(section string) map[string]string {
	return ini.Sections[section]
}

// Set stores key in section, creating the section when needed.
func (ini *IniFile) Set(section, key, value string) {
	sec, ok := ini.Sections[section]
	if !ok {
		sec = make(map[string]string)
		ini.Sections[section] = sec
	}
	sec[key] = value
}

// WriteTo writes the file with sections in the given order followed by any others sorted by name.
// Keys are sorted within a section.
func (ini *IniFile) WriteTo(w io.Writer, order ...string) error {
	seen := make(map[string]bool)
	names := make([]string, 0, len(ini.Sections))
	for _, name := range order {
		if _, ok := ini.Sections[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range ini.Sections {
		if !seen[name] && name != "" {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	bw := bufio.NewWriter(w)
	for i, name := range names {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "[%s]\n", name)
		sec := ini.Sections[name]
		keys := make([]string, 0, len(sec))
		for k := range sec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(bw, "%s=%s\n", k, sec[k])
		}
	}
	return bw.Flush()
}
