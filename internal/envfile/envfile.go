// Package envfile reads and writes the project dotenv file that carries
// local user identity (for container UID mapping) and exported API keys.
package envfile

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"slices"
	"strings"

	"github.com/devstrap/devstrap/internal/perms"
)

// DefaultFileName is the dotenv file devstrap manages in the project root.
const DefaultFileName = ".env"

// Fixed identity keys consumed by the devcontainer build for UID mapping.
const (
	KeyLocalUsername = "LOCAL_USERNAME"
	KeyLocalUserUID  = "LOCAL_USER_UID"
	KeyLocalUserGID  = "LOCAL_USER_GID"
)

// Load parses a dotenv file into a map. An absent file yields an empty map,
// since generating the file from nothing is the common case.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	entries := map[string]string{}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			continue
		}

		key := strings.TrimSpace(parts[0])
		entries[key] = unescape(parts[1])
	}

	return entries, nil
}

// Write renders the entries as KEY=VALUE lines, keys sorted
// lexicographically and newlines escaped, then writes the file with
// owner-only permissions (the file may carry credentials).
func Write(path string, entries map[string]string) error {
	var b strings.Builder

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(&b, "%s=%s\n", k, escape(entries[k])); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), perms.SecureFile); err != nil {
		return fmt.Errorf("failed to write env file '%s': %w", path, err)
	}

	return nil
}

// escape encodes a value for a single KEY=VALUE line. Backslashes are
// doubled before newlines are encoded so the mapping stays injective and
// a literal `\n` in a value survives a load/write round trip.
func escape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)

	return strings.ReplaceAll(value, "\n", `\n`)
}

// unescape reverses escape. Decoding scans left to right since chained
// ReplaceAll calls cannot distinguish `\\n` from `\n`.
func unescape(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for i := 0; i < len(value); i++ {
		if value[i] == '\\' && i+1 < len(value) {
			switch value[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++

				continue
			case '\\':
				b.WriteByte('\\')
				i++

				continue
			}
		}

		b.WriteByte(value[i])
	}

	return b.String()
}

// Identity returns the LOCAL_* entries for the current OS user.
func Identity() (map[string]string, error) {
	current, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to look up current user: %w", err)
	}

	return map[string]string{
		KeyLocalUsername: current.Username,
		KeyLocalUserUID:  current.Uid,
		KeyLocalUserGID:  current.Gid,
	}, nil
}

// Merge overlays updates on top of existing entries, returning a new map.
// Existing keys not named in updates are preserved.
func Merge(existing map[string]string, updates map[string]string) map[string]string {
	merged := make(map[string]string, len(existing)+len(updates))

	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}

	return merged
}
