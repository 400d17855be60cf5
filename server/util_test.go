package server

import (
	"strconv"

	"github.com/lixenwraith/bouncegolf/golf"
)

func itoa(id golf.BallID) string {
	return strconv.FormatUint(uint64(id), 10)
}
