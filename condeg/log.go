package condeg

import (
	"io"
	"log"
	"os"
)

// OpenLogFile starts writing one line per placed rotamer to the file at path,
// recording whether it survived pruning and which backbones pruned it. Any
// previously opened log file is closed.
func (e *Engine) OpenLogFile(path string, appendTo bool) error {
	if err := e.CloseLogFile(); err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}

	e.rotOut = f
	e.rotLog = log.New(f, "", 0)
	return nil
}

// SetLogOutput writes the rotamer log to w. A nil w turns logging off.
func (e *Engine) SetLogOutput(w io.Writer) {
	if w == nil {
		e.rotLog = nil
		return
	}
	e.rotLog = log.New(w, "", 0)
}

// CloseLogFile stops logging and closes the file opened by OpenLogFile.
func (e *Engine) CloseLogFile() error {
	e.rotLog = nil
	if e.rotOut == nil {
		return nil
	}
	err := e.rotOut.Close()
	e.rotOut = nil
	return err
}
