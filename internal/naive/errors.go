package naive

import "errors"

var (
	errEmptyPayload   = errors.New("naive: data must not be empty")
	errRangeViolation = errors.New("naive: addr+len exceeds the address space")
	errCursorNotAtTip = errors.New("naive: add_transaction while a redo tail exists")
	errOutOfRangeStep = errors.New("naive: step would move the cursor out of range")
)
