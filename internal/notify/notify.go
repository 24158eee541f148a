package notify

import "sync"

// Severity de una notificación transitoria (el snackbar de la consola).
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

type Notification struct {
	Severity Severity
	Message  string
}

// Notifier recibe notificaciones transitorias desde los controllers.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Memory acumula las notificaciones más recientes (buffer acotado).
// El gateway las drena para mostrarlas; los tests las inspeccionan.
type Memory struct {
	mu      sync.Mutex
	max     int
	pending []Notification
}

func NewMemory(max int) *Memory {
	if max <= 0 {
		max = 20
	}
	return &Memory{max: max}
}

func (m *Memory) Success(msg string) { m.push(Notification{Severity: SeveritySuccess, Message: msg}) }
func (m *Memory) Error(msg string)   { m.push(Notification{Severity: SeverityError, Message: msg}) }

func (m *Memory) push(n Notification) {
	if n.Message == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = append(m.pending, n)
	if len(m.pending) > m.max {
		m.pending = m.pending[len(m.pending)-m.max:]
	}
}

// Drain devuelve y limpia lo pendiente.
func (m *Memory) Drain() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.pending
	m.pending = nil
	return out
}

var _ Notifier = (*Memory)(nil)
