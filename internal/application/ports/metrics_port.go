package ports

import "time"

// OperationRecorder métricas de las operaciones del núcleo.
// outcome es "OK" o el código de error de domain.Code.
type OperationRecorder interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
	ObserveEvent(eventType string)
	IncTxRetry()
}

// NopRecorder no registra nada.
type NopRecorder struct{}

func (NopRecorder) ObserveOperation(string, string, time.Duration) {}
func (NopRecorder) ObserveEvent(string)                            {}
func (NopRecorder) IncTxRetry()                                    {}
