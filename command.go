package lottie

// commandKind tags the variant held by a command (spec §3's Command sum
// type: AddConfig/DiscardPid/SetupPid/SetupPlay/SetupRender).
type commandKind int

const (
	cmdAddConfig commandKind = iota
	cmdDiscardPid
	cmdSetupPid
	cmdSetupPlay
	cmdSetupRender
)

// command is the worker's unit of work, pushed by the registry and drained
// one at a time by the pipeline loop. Like model.Layer/Shape, every variant
// is folded into one tagged struct rather than an interface per kind, so the
// command queue stays a single homogeneous slice.
type command struct {
	kind commandKind

	// AddConfig
	path   string
	width  int
	height int
	loop   bool
	rate   int
	pid    uint32

	// DiscardPid, SetupRender: pid above.

	// SetupPid: re-keys the entry currently stored under propsHash to pid.
	propsHash uint32

	// SetupPlay
	play bool
}

func addConfigCommand(path string, width, height int, loop bool, rate int, pid uint32) command {
	return command{kind: cmdAddConfig, path: path, width: width, height: height, loop: loop, rate: rate, pid: pid}
}

func discardPidCommand(pid uint32) command {
	return command{kind: cmdDiscardPid, pid: pid}
}

func setupPidCommand(propsHash, pid uint32) command {
	return command{kind: cmdSetupPid, propsHash: propsHash, pid: pid}
}

func setupPlayCommand(pid uint32, on bool) command {
	return command{kind: cmdSetupPlay, pid: pid, play: on}
}

func setupRenderCommand(pid uint32) command {
	return command{kind: cmdSetupRender, pid: pid}
}
