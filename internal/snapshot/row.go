package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Row 表格的一行：有序的 列名 -> 展示值。
// 列顺序与数据源 JSON 对象里的 key 顺序一致。
type Row struct {
	cols []string
	vals map[string]any
}

// NewRow 按参数顺序构造一行：NewRow("TIME", "10:00", "SIDE", "LONG")
func NewRow(kv ...any) Row {
	r := Row{vals: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		k := fmt.Sprint(kv[i])
		if _, ok := r.vals[k]; !ok {
			r.cols = append(r.cols, k)
		}
		r.vals[k] = kv[i+1]
	}
	return r
}

// Columns 列名（有序）
func (r Row) Columns() []string {
	out := make([]string, len(r.cols))
	copy(out, r.cols)
	return out
}

// Get 取列值
func (r Row) Get(col string) (any, bool) {
	v, ok := r.vals[col]
	return v, ok
}

func (r Row) Len() int { return len(r.cols) }

// UnmarshalJSON 逐 token 解码以保留 key 顺序；null 解成空行
func (r *Row) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Row{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("row: expected JSON object")
	}

	r.cols = r.cols[:0]
	r.vals = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row: unexpected key token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("row: column %s: %w", key, err)
		}
		if n, ok := v.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				v = f
			}
		}
		if _, dup := r.vals[key]; !dup {
			r.cols = append(r.cols, key)
		}
		r.vals[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON 按列顺序输出
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.vals[c])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Float 把数值或数值字符串转成 float64
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Text 展示用字符串；数值按最短表示输出（与 JS 的默认数字转字符串一致）
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
