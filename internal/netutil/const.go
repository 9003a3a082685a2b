// File: internal/netutil/const.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netutil

import "time"

const ringKeepAlivePeriod = 30 * time.Second
