// Package file provides handlers for document and tab operations.
//
// This package implements:
//   - New untitled tab
//   - Open, optionally read-only
//   - Save and Save As
//   - Close the current tab and close all tabs
//
// Opening a file and saving under a new name record it as the last session
// file and move it to the front of the recent files. The settings record is
// persisted before the handler returns. A persistence failure does not fail
// the action; it is logged and reported in the status message.
package file
