package goble

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// hciIndex parses an adapter id such as "hci0" into its device index.
// An empty id selects hci0.
func hciIndex(adapterID string) (int, error) {
	if adapterID == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(adapterID, "hci"))
	if err != nil || n < 0 {
		return 0, errors.Errorf("goble: invalid adapter id %q", adapterID)
	}
	return n, nil
}
