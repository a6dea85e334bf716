// Package seeds menyimpan data contoh (fixture) yang dipakai saat USE_DUMMY aktif.
package seeds

import (
	"embed"
	"log"
	"sync"

	"github.com/bytedance/sonic"
)

//go:embed data/*.json
var dataFS embed.FS

var (
	mu    sync.Mutex
	cache = map[string][]byte{}
)

func raw(name string) ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()
	if b, ok := cache[name]; ok {
		return b, nil
	}
	b, err := dataFS.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, err
	}
	cache[name] = b
	return b, nil
}

// Load membaca data/<name>.json ke []T. Gagal baca → slice kosong (dicatat di log).
// Setiap pemanggilan mengembalikan salinan baru.
func Load[T any](name string) []T {
	b, err := raw(name)
	if err != nil {
		log.Printf("❌ Gagal membaca seed %s: %v", name, err)
		return []T{}
	}
	var out []T
	if err := sonic.Unmarshal(b, &out); err != nil {
		log.Printf("❌ Gagal decode seed %s: %v", name, err)
		return []T{}
	}
	return out
}

// Loader: bentuk func() []T untuk shared.LoadList.
func Loader[T any](name string) func() []T {
	return func() []T { return Load[T](name) }
}
