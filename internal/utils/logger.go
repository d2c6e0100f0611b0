package utils

import (
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	clog "github.com/charmbracelet/log"
)

var (
	Info  = log.New(os.Stdout, "[INFO] ", log.LstdFlags|log.Lshortfile)
	Error = log.New(os.Stderr, "[ERROR] ", log.LstdFlags|log.Lshortfile)
)

var Print *clog.Logger

func Init() {
	Print = clog.NewWithOptions(os.Stderr, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "league",
	})
	styles := clog.DefaultStyles()
	styles.Levels[clog.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("#2E8B57")).Bold(true)

	styles.Levels[clog.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("#DAA520")).Bold(true)

	styles.Levels[clog.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("#B22222")).Bold(true)

	styles.Levels[clog.FatalLevel] = lipgloss.NewStyle().
		SetString("FATAL").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("#8B0000")).Bold(true)
	Print.SetStyles(styles)
}
