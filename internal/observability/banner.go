package observability

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var startTime = time.Now()

const (
	colorReset    = "\033[0m"
	colorPurple   = "\033[35m"
	colorNeonCyan = "\033[96m"
	colorNeonMag  = "\033[95m"
)

var spinnerFrames = []string{"◜", "◝", "◞", "◟"}
var spinnerIdx = 0

// termMu synchronizes ALL terminal output so that the cursor
// save/restore in PrintLiveStatus can never be interrupted by a log write.
var termMu sync.Mutex

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

// ------------------------------------------------------------
// TermWriter – a mutex-guarded io.Writer for log output.
// ------------------------------------------------------------

type termWriter struct{}

func (tw termWriter) Write(p []byte) (n int, err error) {
	termMu.Lock()
	defer termMu.Unlock()
	return os.Stderr.Write(p)
}

// NewTermWriter returns an io.Writer suitable for log.SetOutput().
// It serialises writes with PrintLiveStatus via termMu.
func NewTermWriter() *termWriter {
	return &termWriter{}
}

// ------------------------------------------------------------
// Banner
// ------------------------------------------------------------

func PrintBanner() {
	fmt.Print("\033[2J\033[H")

	banner := `
   _____ __________  ___       ______________
  / ___//_  __/ __ \/ _ \ | /| / /  _/ __/ __/
  \__ \  / / / /_/ / ___/ |/ |/ // /_\ \/ _/
 ___/ / / / / ____/ /  |__/|__/___/___/___/
/____/ /_/ /_/   /_/

        >> ONE STEP AT A TIME <<
`

	width := termWidth()
	for _, l := range strings.Split(banner, "\n") {
		padding := (width - len(l)) / 2
		if padding < 0 {
			padding = 0
		}
		fmt.Printf("%s%s%s\n", strings.Repeat(" ", padding), colorNeonCyan+l, colorReset)
	}
}

func InitializeTerminal() {
	// Header/Logo area: 1-9
	// Status line: 10
	// Gap: 11
	// Scrolling Logs: 12+
	fmt.Print("\033[12;r")
	fmt.Print("\033[12;1H")
}

func CleanupTerminal() {
	fmt.Print("\033[r\033[2J\033[H")
}

// ------------------------------------------------------------
// Live Status
// ------------------------------------------------------------

func PrintLiveStatus() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(startTime).Round(time.Second)
	memMB := float64(m.Alloc) / 1024 / 1024

	role, step, lastHB := GetStatus()

	roleColor := colorReset
	icon := "💤"
	switch role {
	case RolePlanning:
		icon = "🗺️"
		roleColor = colorNeonCyan
	case RoleDelegating:
		icon = "⚙️"
		roleColor = colorNeonMag
	}

	spinner := " "
	if role != RoleIdle {
		spinner = spinnerFrames[spinnerIdx]
		spinnerIdx = (spinnerIdx + 1) % len(spinnerFrames)
	}

	displayStep := step
	if displayStep == "" {
		displayStep = "Waiting..."
	}
	if len(displayStep) > 32 {
		displayStep = displayStep[:29] + "..."
	}

	statusStr := fmt.Sprintf(
		"\033[s\033[10;1H\033[K%s[%s] [%s%s %-10s%s] %s %s%s%s [%v] [%.1fMB]\033[u",
		colorReset,
		lastHB.Format("15:04:05"),
		roleColor, icon, role, colorReset,
		displayStep,
		colorPurple, spinner, colorReset,
		uptime,
		memMB,
	)

	// Lock, write the ENTIRE escape sequence atomically, unlock.
	termMu.Lock()
	fmt.Print(statusStr)
	termMu.Unlock()
}
