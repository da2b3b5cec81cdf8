package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/antibyte/tinyscript/pkg/configuration"
)

// LogLevel defines the available log levels.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var logLevelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

// LogArea defines the subsystem a log entry belongs to.
type LogArea string

const (
	AreaInterp    LogArea = "interp"
	AreaHostFuncs LogArea = "hostfuncs"
	AreaDriver    LogArea = "driver"
	AreaDatabase  LogArea = "database"
	AreaConfig    LogArea = "config"
	AreaGeneral   LogArea = "general"
)

// Logger is the logging system.
type Logger struct {
	enabled       int32              // atomic bool - performance critical
	level         int32              // atomic LogLevel
	areaEnabled   map[LogArea]*int32 // atomic bools per area
	file          *os.File
	mutex         sync.RWMutex
	logPath       string
	maxSizeMB     int64
	rotationCount int
	currentSize   int64
}

var (
	globalLogger *Logger
	initOnce     sync.Once
)

// Initialize sets up the global logging system from the configuration.
func Initialize() error {
	var err error
	initOnce.Do(func() {
		globalLogger, err = newLogger()
	})
	return err
}

func newLogger() (*Logger, error) {
	l := &Logger{
		areaEnabled: make(map[LogArea]*int32),
	}
	for _, area := range ListAreas() {
		l.areaEnabled[area] = new(int32)
	}

	if err := l.loadConfig(); err != nil {
		return nil, err
	}
	if err := l.openLogFile(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Logger) loadConfig() error {
	enabled := configuration.GetBool("Debug", "enable_debug_logging", false)
	atomic.StoreInt32(&l.enabled, boolToInt32(enabled))

	levelStr := configuration.GetString("Debug", "log_level", "INFO")
	atomic.StoreInt32(&l.level, int32(parseLogLevel(levelStr)))

	l.logPath = configuration.GetString("Debug", "log_file", "debug.log")
	l.maxSizeMB = int64(configuration.GetInt("Debug", "max_log_size_mb", 10))
	l.rotationCount = configuration.GetInt("Debug", "log_rotation_count", 3)

	// Per-area switches: log_interp, log_driver, ...
	for area, atomicBool := range l.areaEnabled {
		configKey := fmt.Sprintf("log_%s", string(area))
		enabled := configuration.GetBool("Debug", configKey, false)
		atomic.StoreInt32(atomicBool, boolToInt32(enabled))
	}
	return nil
}

func (l *Logger) openLogFile() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.file != nil {
		l.file.Close()
	}

	dir := filepath.Dir(l.logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	l.file = file

	if stat, err := file.Stat(); err == nil {
		l.currentSize = stat.Size()
	}
	return nil
}

// rotateLogFile rotates the log file once it grows past the size limit.
func (l *Logger) rotateLogFile() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	for i := l.rotationCount - 1; i >= 1; i-- {
		oldName := fmt.Sprintf("%s.%d", l.logPath, i)
		newName := fmt.Sprintf("%s.%d", l.logPath, i+1)
		if i == l.rotationCount-1 {
			os.Remove(newName)
		}
		os.Rename(oldName, newName)
	}
	os.Rename(l.logPath, l.logPath+".1")

	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	l.file = file
	l.currentSize = 0
	return nil
}

func (l *Logger) isEnabled() bool {
	return atomic.LoadInt32(&l.enabled) != 0
}

func (l *Logger) isAreaEnabled(area LogArea) bool {
	if atomicBool, exists := l.areaEnabled[area]; exists {
		return atomic.LoadInt32(atomicBool) != 0
	}
	return false
}

// shouldLog performs the fast atomic checks before any formatting happens.
func (l *Logger) shouldLog(level LogLevel, area LogArea) bool {
	if !l.isEnabled() {
		return false
	}
	if atomic.LoadInt32(&l.level) > int32(level) {
		return false
	}
	return l.isAreaEnabled(area)
}

func (l *Logger) writeLog(level LogLevel, area LogArea, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	_, file, line, _ := runtime.Caller(3)
	filename := filepath.Base(file)

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	logEntry := fmt.Sprintf("[%s] %s [%s:%d] [%s] %s\n",
		timestamp,
		logLevelNames[level],
		filename,
		line,
		strings.ToUpper(string(area)),
		message)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.file != nil {
		n, err := l.file.WriteString(logEntry)
		if err == nil {
			l.currentSize += int64(n)
			if l.currentSize > l.maxSizeMB*1024*1024 {
				l.rotateLogFile()
			}
		}
	}

	if level >= WARN {
		log.Printf("[%s] [%s] %s", logLevelNames[level], strings.ToUpper(string(area)), message)
	}
}

// Debug writes debug logs.
func Debug(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.shouldLog(DEBUG, area) {
		globalLogger.writeLog(DEBUG, area, format, args...)
	}
}

// Info writes info logs.
func Info(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.shouldLog(INFO, area) {
		globalLogger.writeLog(INFO, area, format, args...)
	}
}

// Warn writes warning logs.
func Warn(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.shouldLog(WARN, area) {
		globalLogger.writeLog(WARN, area, format, args...)
	}
}

// Error writes error logs.
func Error(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.shouldLog(ERROR, area) {
		globalLogger.writeLog(ERROR, area, format, args...)
	}
}

// Fatal writes a fatal log entry and terminates the program.
func Fatal(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.writeLog(FATAL, area, format, args...)
	}
	log.Fatalf("[FATAL] [%s] %s", strings.ToUpper(string(area)), fmt.Sprintf(format, args...))
}

// Convenience functions for frequently used areas.

func ConfigDebug(format string, args ...interface{}) { Debug(AreaConfig, format, args...) }
func ConfigInfo(format string, args ...interface{})  { Info(AreaConfig, format, args...) }
func ConfigWarn(format string, args ...interface{})  { Warn(AreaConfig, format, args...) }
func ConfigError(format string, args ...interface{}) { Error(AreaConfig, format, args...) }

func DriverDebug(format string, args ...interface{}) { Debug(AreaDriver, format, args...) }
func DriverInfo(format string, args ...interface{})  { Info(AreaDriver, format, args...) }
func DriverWarn(format string, args ...interface{})  { Warn(AreaDriver, format, args...) }
func DriverError(format string, args ...interface{}) { Error(AreaDriver, format, args...) }

// ReloadConfig re-reads the logging configuration.
func ReloadConfig() error {
	if globalLogger != nil {
		return globalLogger.loadConfig()
	}
	return fmt.Errorf("logger not initialized")
}

// EnableArea turns on logging for one area.
func EnableArea(area LogArea) {
	if globalLogger != nil {
		if atomicBool, exists := globalLogger.areaEnabled[area]; exists {
			atomic.StoreInt32(atomicBool, 1)
		}
	}
}

// DisableArea turns off logging for one area.
func DisableArea(area LogArea) {
	if globalLogger != nil {
		if atomicBool, exists := globalLogger.areaEnabled[area]; exists {
			atomic.StoreInt32(atomicBool, 0)
		}
	}
}

// ListAreas returns all known areas.
func ListAreas() []LogArea {
	return []LogArea{
		AreaInterp, AreaHostFuncs, AreaDriver, AreaDatabase,
		AreaConfig, AreaGeneral,
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Close shuts down the logging system.
func Close() {
	if globalLogger != nil {
		globalLogger.mutex.Lock()
		defer globalLogger.mutex.Unlock()

		if globalLogger.file != nil {
			globalLogger.file.Close()
			globalLogger.file = nil
		}
	}
}
