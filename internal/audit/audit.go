package audit

import (
	"fmt"
	"strconv"
	"sync"
)

var (
	// globalWriter is the default audit writer.
	globalWriter Writer = NopWriter{}
	globalMu     sync.RWMutex

	// enabled tracks whether audit logging is active.
	enabled bool
)

// Init installs w as the global audit writer. A nil writer disables
// auditing.
func Init(w Writer) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if w == nil {
		globalWriter = NopWriter{}
		enabled = false
		return nil
	}
	globalWriter = w
	enabled = true
	return nil
}

// InitFile initializes the global audit logger with a file writer.
// An empty path disables auditing.
func InitFile(path string) error {
	if path == "" {
		return Init(nil)
	}
	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}
	return Init(w)
}

// Close closes the global audit writer.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	err := globalWriter.Close()
	globalWriter = NopWriter{}
	enabled = false
	return err
}

// Enabled returns whether audit logging is active.
func Enabled() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return enabled
}

// Log writes an audit event to the global writer.
func Log(event *Event) error {
	globalMu.RLock()
	w := globalWriter
	globalMu.RUnlock()

	return w.Write(event)
}

// MustLog writes an audit event and returns an error suitable for
// failing the parent operation if audit logging fails.
//
//	if err := audit.MustLog(event); err != nil {
//	    return nil, err // Operation fails if audit fails
//	}
func MustLog(event *Event) error {
	if err := Log(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

func resultOf(success bool) Result {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}

// LogOIDEncoded logs an OID encoding.
func LogOIDEncoded(dotted, format string, size int, success bool) error {
	return MustLog(NewEvent(EventOIDEncoded, resultOf(success)).
		WithObject(Object{Type: "oid", ID: dotted}).
		WithContext(Context{Format: format, Size: size}))
}

// LogOIDDecoded logs an OID decoding. dotted is empty on failure.
func LogOIDDecoded(dotted string, size int, success bool, reason string) error {
	return MustLog(NewEvent(EventOIDDecoded, resultOf(success)).
		WithObject(Object{Type: "oid", ID: dotted}).
		WithContext(Context{Size: size, Reason: reason}))
}

// LogTBSEncoded logs a TBSCertificate encoding.
func LogTBSEncoded(serial, subject, algorithm string, size int, success bool) error {
	return MustLog(NewEvent(EventTBSEncoded, resultOf(success)).
		WithObject(Object{Type: "tbs", ID: serial, Subject: subject}).
		WithContext(Context{Algorithm: algorithm, Size: size, Format: "der"}))
}

// LogCRLEncoded logs a TBSCertList encoding.
func LogCRLEncoded(issuer string, revokedCount, size int, success bool) error {
	return MustLog(NewEvent(EventCRLEncoded, resultOf(success)).
		WithObject(Object{Type: "crl", Subject: issuer}).
		WithContext(Context{Size: size, Reason: strconv.Itoa(revokedCount) + " certificates revoked"}))
}

// LogTemplateLoaded logs a template load. reason carries the failure.
func LogTemplateLoaded(path string, success bool, reason string) error {
	return MustLog(NewEvent(EventTemplateLoaded, resultOf(success)).
		WithObject(Object{Type: "template", Path: path}).
		WithContext(Context{Reason: reason}))
}

// LogAPIRequest logs a served HTTP request. Statuses of 400 and above are
// failures.
func LogAPIRequest(requestID, method, path, remote string, status int) error {
	return MustLog(NewEvent(EventAPIRequest, resultOf(status < 400)).
		WithActor(Actor{Type: "service", ID: "qder-api", Host: remote}).
		WithObject(Object{Type: "request", ID: requestID, Path: path}).
		WithContext(Context{Method: method, Status: status}))
}
