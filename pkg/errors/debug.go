package errors

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrorDump is a log-friendly flattening of an error chain.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	SQLiteCode         string `json:"sqlite_code,omitempty"`
	SQLiteExtendedCode string `json:"sqlite_extended_code,omitempty"`
	SQLiteMessage      string `json:"sqlite_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		d.SQLiteCode = sqliteErr.Code.Error()
		d.SQLiteExtendedCode = sqliteErr.ExtendedCode.Error()
		d.SQLiteMessage = sqliteErr.Error()
	}

	return d
}
