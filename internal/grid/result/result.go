// Package result defines the envelope every user-facing grid call returns,
// the stable failure codes, and their text serialization.
package result

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Code is a stable numeric failure code.
type Code int

// Codes returned in envelopes.
const (
	GridSuccess Code = 200

	// RowsBlockedAdd is returned by AddNewRows when filter, group or sort is active.
	RowsBlockedAdd Code = 201
	// GenericFailure covers blocked removals, missing templates and failed
	// post-condition checks.
	GenericFailure Code = 400

	APIFailedGetAllSelections     Code = 5001
	APIFailedGetAllSelectionsData Code = 5002
	APIFailedGetCheckedRowsData   Code = 5003
	APIFailedGetSelectedRowsCount Code = 5004
	APIFailedGetSelectedRowsData  Code = 5005
	APIFailedGetSelectionAverage  Code = 5006
	APIFailedGetSelectionCount    Code = 5007
	APIFailedGetSelectionMax      Code = 5008
	APIFailedGetSelectionMin      Code = 5009
	APIFailedGetSelectionSum      Code = 5010
	APIFailedHasSelectedRows      Code = 5011
	APIFailedSetRowAsSelected     Code = 5012
	APIFailedGetRowData           Code = 5013
)

// Messages shown to users.
const (
	MsgSuccess          = "Success"
	MsgError            = "Error"
	MsgSetRowAsSelected = "Grids with RowCheckbox as RowHeader has this capability disabled."
	MsgActiveFilter     = "It seems that you have an active filter, group or sort on your columns. Remove them and try again."
	MsgMissingNewItem   = "If you use auto generated columns and JSONSerialize, you can't add new rows. Also, if you are using columns, JSONSerialize and the grid has no data, you can't add new rows."
)

var codeNames = map[Code]string{
	GridSuccess:                   "GRID_SUCCESS",
	RowsBlockedAdd:                "ROWS_BLOCKED",
	GenericFailure:                "GENERIC_FAILURE",
	APIFailedGetAllSelections:     "API_FailedGetAllSelections",
	APIFailedGetAllSelectionsData: "API_FailedGetAllSelectionsData",
	APIFailedGetCheckedRowsData:   "API_FailedGetCheckedRowsData",
	APIFailedGetSelectedRowsCount: "API_FailedGetSelectedRowsCount",
	APIFailedGetSelectedRowsData:  "API_FailedGetSelectedRowsData",
	APIFailedGetSelectionAverage:  "API_FailedGetSelectionAverage",
	APIFailedGetSelectionCount:    "API_FailedGetSelectionCount",
	APIFailedGetSelectionMax:      "API_FailedGetSelectionMax",
	APIFailedGetSelectionMin:      "API_FailedGetSelectionMin",
	APIFailedGetSelectionSum:      "API_FailedGetSelectionSum",
	APIFailedHasSelectedRows:      "API_FailedHasSelectedRows",
	APIFailedSetRowAsSelected:     "API_FailedSetRowAsSelected",
	APIFailedGetRowData:           "API_FailedGetRowData",
}

// String returns the symbolic name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%d", int(c))
}

// ReturnMessage is the envelope returned by query-style API calls.
type ReturnMessage struct {
	Value     any    `json:"value"`
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	Code      Code   `json:"code"`
}

// Success wraps a value in a successful envelope.
func Success(value any) ReturnMessage {
	return ReturnMessage{Value: value, IsSuccess: true, Message: MsgSuccess, Code: GridSuccess}
}

// Failure builds a failed envelope carrying the error's message.
func Failure(code Code, value any, err error) ReturnMessage {
	msg := MsgError
	if err != nil {
		msg = err.Error()
	}
	return ReturnMessage{Value: value, IsSuccess: false, Message: msg, Code: code}
}

// Rejected builds a failed envelope with a fixed message.
func Rejected(code Code, message string) ReturnMessage {
	return ReturnMessage{IsSuccess: false, Message: message, Code: code}
}

// JSON serializes the envelope as text for cross-boundary calls.
func (r ReturnMessage) JSON() string {
	out := `{}`
	out, _ = sjson.Set(out, "value", r.Value)
	out, _ = sjson.Set(out, "isSuccess", r.IsSuccess)
	out, _ = sjson.Set(out, "message", r.Message)
	out, _ = sjson.Set(out, "code", int(r.Code))
	return out
}

// ErrorMessage is the envelope returned by row mutations.
type ErrorMessage struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// OK returns the success ErrorMessage.
func OK() ErrorMessage {
	return ErrorMessage{Code: GridSuccess, Message: MsgSuccess}
}

// IsSuccess reports whether the mutation succeeded.
func (e ErrorMessage) IsSuccess() bool {
	return e.Code == GridSuccess
}

// JSON serializes the message as text for cross-boundary calls.
func (e ErrorMessage) JSON() string {
	out, _ := sjson.Set(`{}`, "code", int(e.Code))
	out, _ = sjson.Set(out, "message", e.Message)
	return out
}

// Guard runs fn and converts both returned errors and panics into a failed
// envelope with the given code. fallback is the value placed in failed
// envelopes.
func Guard(code Code, fallback any, fn func() (any, error)) (rm ReturnMessage) {
	defer func() {
		if r := recover(); r != nil {
			rm = Failure(code, fallback, fmt.Errorf("%v", r))
		}
	}()

	v, err := fn()
	if err != nil {
		return Failure(code, fallback, err)
	}
	return Success(v)
}
