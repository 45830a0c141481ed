// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover file setup (MustWriteFile), the configuration home
// (SetConfigHome) and resource cleanup (MustClose, MustStop).
package testutil
