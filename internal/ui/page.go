package ui

import (
	"sync"

	"github.com/betbot/botdash/pkg/sigchan"
)

// Page 内存版 Surface：终端 UI、浏览器视图和测试都读它
type Page struct {
	mu       sync.RWMutex
	text     map[string]string
	class    map[string]string
	rows     map[string][]Row
	navigate string
	version  uint64

	changed *sigchan.Chan
}

// View Page 的只读拷贝（可直接 JSON 序列化）
type View struct {
	Text     map[string]string `json:"text"`
	Class    map[string]string `json:"class"`
	Tables   map[string][]Row  `json:"tables"`
	Navigate string            `json:"navigate,omitempty"`
	Version  uint64            `json:"version"`
}

func NewPage() *Page {
	return &Page{
		text:    make(map[string]string),
		class:   make(map[string]string),
		rows:    make(map[string][]Row),
		changed: sigchan.New(1),
	}
}

func (p *Page) SetText(id, text string) {
	p.mu.Lock()
	p.text[id] = text
	p.version++
	p.mu.Unlock()
	p.changed.Emit()
}

func (p *Page) SetClass(id, class string) {
	p.mu.Lock()
	p.class[id] = class
	p.version++
	p.mu.Unlock()
	p.changed.Emit()
}

// SetRows 整表替换（不 diff）
func (p *Page) SetRows(tableID string, rows []Row) {
	cp := make([]Row, len(rows))
	for i, r := range rows {
		cp[i] = append(Row(nil), r...)
	}
	p.mu.Lock()
	p.rows[tableID] = cp
	p.version++
	p.mu.Unlock()
	p.changed.Emit()
}

func (p *Page) Navigate(url string) {
	p.mu.Lock()
	p.navigate = url
	p.version++
	p.mu.Unlock()
	p.changed.Emit()
}

func (p *Page) Text(id string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.text[id]
}

func (p *Page) Class(id string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.class[id]
}

func (p *Page) Rows(tableID string) []Row {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Row(nil), p.rows[tableID]...)
}

// NavigatedTo 最近一次跳转目标（没有则为空）
func (p *Page) NavigatedTo() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.navigate
}

// Changed 页面有写入时发出信号（多次写入会合并）
func (p *Page) Changed() <-chan struct{} {
	return p.changed.C()
}

func (p *Page) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v := View{
		Text:     make(map[string]string, len(p.text)),
		Class:    make(map[string]string, len(p.class)),
		Tables:   make(map[string][]Row, len(p.rows)),
		Navigate: p.navigate,
		Version:  p.version,
	}
	for k, s := range p.text {
		v.Text[k] = s
	}
	for k, s := range p.class {
		v.Class[k] = s
	}
	for k, rows := range p.rows {
		v.Tables[k] = append([]Row(nil), rows...)
	}
	return v
}
