package util

import "fmt"

var GLOBAL_LOG_LEVEL = LogLevelWarning
var GLOBAL_LOG_CATEGORIES = LogTrace | LogWorld | LogPartition | LogPhysics | LogStudio | LogEntity | LogSystem

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelDebug
	LogLevelInfo
)

type LogCategory int

const (
	LogTrace LogCategory = 1 << iota
	LogWorld
	LogPartition
	LogPhysics
	LogStudio
	LogEntity
	LogSystem
)

func (c LogCategory) String() string {
	switch c {
	case LogTrace:
		return "Trace"
	case LogWorld:
		return "World"
	case LogPartition:
		return "Partition"
	case LogPhysics:
		return "Physics"
	case LogStudio:
		return "Studio"
	case LogEntity:
		return "Entity"
	case LogSystem:
		return "System"
	}
	return "Unknown"
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	println(fmt.Sprintf("[%s] %s", cat, txt))
}

func LogTraceInfo(txt string) {
	log(LogTrace, LogLevelInfo, txt)
}

func LogTraceDebug(txt string) {
	log(LogTrace, LogLevelDebug, txt)
}

func LogTraceWarning(txt string) {
	log(LogTrace, LogLevelWarning, txt)
}

func LogTraceError(txt string) {
	log(LogTrace, LogLevelError, txt)
}

func LogWorldDebug(txt string) {
	log(LogWorld, LogLevelDebug, txt)
}

func LogWorldWarning(txt string) {
	log(LogWorld, LogLevelWarning, txt)
}

func LogWorldError(txt string) {
	log(LogWorld, LogLevelError, txt)
}

func LogPartitionDebug(txt string) {
	log(LogPartition, LogLevelDebug, txt)
}

func LogPartitionWarning(txt string) {
	log(LogPartition, LogLevelWarning, txt)
}

func LogPhysicsDebug(txt string) {
	log(LogPhysics, LogLevelDebug, txt)
}

func LogPhysicsWarning(txt string) {
	log(LogPhysics, LogLevelWarning, txt)
}

func LogStudioDebug(txt string) {
	log(LogStudio, LogLevelDebug, txt)
}

func LogStudioWarning(txt string) {
	log(LogStudio, LogLevelWarning, txt)
}

func LogStudioError(txt string) {
	log(LogStudio, LogLevelError, txt)
}

func LogEntityDebug(txt string) {
	log(LogEntity, LogLevelDebug, txt)
}

func LogEntityWarning(txt string) {
	log(LogEntity, LogLevelWarning, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}
