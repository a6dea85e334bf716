package upstream

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// Backend tidak punya satu bentuk respons baku, jadi beberapa kandidat dicoba berurutan.

var listKeys = []string{"items", "data", "results", "rows", "list"}

// ExtractMessage mengambil pesan error dari payload backend:
// message → error (string / {message}) → errors (map / list) → detail → fallback.
func ExtractMessage(body []byte, fallback string) string {
	var v map[string]any
	if len(body) == 0 || sonic.Unmarshal(body, &v) != nil {
		return fallback
	}
	if s := str(v["message"]); s != "" {
		return s
	}
	switch e := v["error"].(type) {
	case string:
		if strings.TrimSpace(e) != "" {
			return e
		}
	case map[string]any:
		if s := str(e["message"]); s != "" {
			return s
		}
	}
	if s := firstErrorEntry(v["errors"]); s != "" {
		return s
	}
	if s := str(v["detail"]); s != "" {
		return s
	}
	return fallback
}

func firstErrorEntry(v any) string {
	switch e := v.(type) {
	case string:
		return strings.TrimSpace(e)
	case []any:
		for _, it := range e {
			if s := firstErrorEntry(it); s != "" {
				return s
			}
		}
	case map[string]any:
		if s := str(e["message"]); s != "" {
			return s
		}
		keys := make([]string, 0, len(e))
		for k := range e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s := firstErrorEntry(e[k]); s != "" {
				return k + ": " + s
			}
		}
	}
	return ""
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func toItems(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

func findList(v any, depth int) ([]map[string]any, bool) {
	if items, ok := toItems(v); ok {
		return items, true
	}
	m, ok := v.(map[string]any)
	if !ok || depth > 2 {
		return nil, false
	}
	for _, k := range listKeys {
		if inner, ok := m[k]; ok {
			if items, ok := findList(inner, depth+1); ok {
				return items, true
			}
		}
	}
	return nil, false
}

func findTotal(v any, depth int) (int64, bool) {
	m, ok := v.(map[string]any)
	if !ok || depth > 2 {
		return 0, false
	}
	if n, ok := m["total"].(float64); ok {
		return int64(n), true
	}
	for _, k := range []string{"pagination", "meta", "page", "data"} {
		if n, ok := findTotal(m[k], depth+1); ok {
			return n, true
		}
	}
	return 0, false
}

// UnwrapList mencari array item pada: [..] | {data:[..]} | {data:{items:[..]}} | {items:[..]} | ...
// Total diambil dari pagination/meta/total bila ada, selain itu jumlah item.
func UnwrapList(body []byte) ([]map[string]any, int64, error) {
	var root any
	if err := sonic.Unmarshal(body, &root); err != nil {
		return nil, 0, fmt.Errorf("respons list bukan JSON: %w", err)
	}
	items, ok := findList(root, 0)
	if !ok {
		return nil, 0, fmt.Errorf("respons list tidak dikenali")
	}
	total, ok := findTotal(root, 0)
	if !ok || total < int64(len(items)) {
		total = int64(len(items))
	}
	return items, total, nil
}

// UnwrapObject: {data:{...}} | {data:{item:{...}}} | {item:{...}} | {...}
func UnwrapObject(body []byte) (map[string]any, error) {
	var root map[string]any
	if err := sonic.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("respons objek bukan JSON: %w", err)
	}
	cur := root
	for i := 0; i < 2; i++ {
		next, ok := cur["data"].(map[string]any)
		if !ok {
			next, ok = cur["item"].(map[string]any)
		}
		if !ok {
			break
		}
		cur = next
	}
	return cur, nil
}

// Convert memetakan map generik ke struct via JSON.
func Convert[T any](v any) (T, error) {
	var out T
	raw, err := sonic.Marshal(v)
	if err != nil {
		return out, err
	}
	err = sonic.Unmarshal(raw, &out)
	return out, err
}

func ConvertList[T any](items []map[string]any) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, it := range items {
		v, err := Convert[T](it)
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
