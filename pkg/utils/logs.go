package utils

import (
	"fixengine/pkg/logs"
)

const (
	FIXENGINE logs.LoggerType = "FIXENGINE"
)

func InitLogger() {
	logs.InitLogger(FIXENGINE)
}
