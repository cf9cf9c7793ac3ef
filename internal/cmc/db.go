package cmc

import (
	"log/slog"
	"sync"

	"github.com/pawrequest/gommence/internal/com"
)

// DefaultProgID is the registered automation class of a standard
// Commence installation.
const DefaultProgID = "Commence.DB"

var (
	cacheMu sync.Mutex
	cache   = map[string]*DB{}
)

// DB is a handle to a running Commence database instance.
type DB struct {
	obj    com.Object
	progID string
}

// Connect attaches to the Commence instance registered under progID,
// reusing a cached handle when one exists. An empty progID selects
// DefaultProgID.
//
// The handle is a stateful attachment to the running desktop
// application; one per ProgID per process is all the COM server
// supports usefully.
func Connect(progID string) (*DB, error) {
	if progID == "" {
		progID = DefaultProgID
	}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if db, ok := cache[progID]; ok {
		slog.Debug("reusing cached connection", "prog_id", progID)
		return db, nil
	}
	obj, err := com.Bind(progID)
	if err != nil {
		return nil, translateCOM("connect to "+progID, err)
	}
	db := NewDB(obj, progID)
	cache[progID] = db
	slog.Info("connected to commence", "prog_id", progID)
	return db, nil
}

// NewDB wraps an already-bound dispatch object. Used directly by tests
// that drive an in-memory server; production code goes through Connect.
func NewDB(obj com.Object, progID string) *DB {
	return &DB{obj: obj, progID: progID}
}

// ProgID returns the automation class this handle was opened with.
func (db *DB) ProgID() string { return db.progID }

// Name returns the name of the Commence database.
func (db *DB) Name() (string, error) { return db.stringProp("Name") }

// Path returns the full filesystem path of the database.
func (db *DB) Path() (string, error) { return db.stringProp("Path") }

// RegisteredUser returns a CR/LF delimited string with the user name,
// company name, and serial number.
func (db *DB) RegisteredUser() (string, error) { return db.stringProp("RegisteredUser") }

// Version returns the version number in x.y form.
func (db *DB) Version() (string, error) { return db.stringProp("Version") }

// VersionExt returns the version number in x.y.z.w form.
func (db *DB) VersionExt() (string, error) { return db.stringProp("VersionExt") }

// Shared reports whether the database is enrolled in a workgroup.
func (db *DB) Shared() (bool, error) {
	v, err := db.obj.Get("Shared")
	if err != nil {
		return false, translateCOM("get Shared", err)
	}
	return v.Bool(), nil
}

func (db *DB) stringProp(name string) (string, error) {
	v, err := db.obj.Get(name)
	if err != nil {
		return "", translateCOM("get "+name, err)
	}
	return v.String(), nil
}

// Cursor creates a cursor over a category or saved view.
//
// Category and view cursors require name to be the category or view
// name respectively. Flags are OR-combined; only FlagPilot and
// FlagInternet are valid at creation.
func (db *DB) Cursor(name string, mode CursorType, flags ...OptionFlag) (*Cursor, error) {
	if mode.requiresName() && name == "" {
		return nil, &Error{
			Code:    CodeInvalidArg,
			Message: "cursor mode " + mode.String() + " requires a name",
		}
	}
	combined, err := combineFlags(flags)
	if err != nil {
		return nil, err
	}
	v, err := db.obj.Call("GetCursor", int(mode), name, combined)
	if err != nil {
		e := translateCOM("get cursor "+name, err)
		e.Category = name
		return nil, e
	}
	obj, ok := v.Object()
	if !ok {
		return nil, &Error{Code: CodeCOMFailure, Message: "GetCursor returned no object", Category: name}
	}
	slog.Debug("cursor opened", "name", name, "mode", mode.String())
	return &Cursor{obj: obj}, nil
}

// Conversation opens a DDE conversation on the given topic. Prefer
// cursors; the conversation interface predates them and survives for
// the handful of calls cursors do not cover.
func (db *DB) Conversation(topic string) (*Conversation, error) {
	v, err := db.obj.Call("GetConversation", "Commence", topic)
	if err != nil {
		return nil, translateCOM("get conversation "+topic, err)
	}
	obj, ok := v.Object()
	if !ok {
		return nil, &Error{Code: CodeCOMFailure, Message: "GetConversation returned no object"}
	}
	return &Conversation{obj: obj, topic: topic}, nil
}

// ResetCache drops all cached connections. Intended for tests.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = map[string]*DB{}
}
