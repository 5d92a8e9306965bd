package confloader

import "errors"

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider is a koanf provider backed by a flat map of dotted keys.
// Keys are unflattened on Read so "server.addr" merges into the server section.
type mapProvider map[string]any

// ReadBytes returns an error as map provider doesn't support byte serialization.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration as a nested map.
func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(m))
	for key, val := range m {
		insertDotted(out, key, val)
	}
	return out, nil
}

func insertDotted(dst map[string]any, key string, val any) {
	for i := 0; i < len(key); i++ {
		if key[i] != '.' {
			continue
		}
		head, rest := key[:i], key[i+1:]
		child, ok := dst[head].(map[string]any)
		if !ok {
			child = make(map[string]any)
			dst[head] = child
		}
		insertDotted(child, rest, val)
		return
	}
	dst[key] = val
}
