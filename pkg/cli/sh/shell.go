// Package sh provides an interactive shell to inspect frames and records
// offline.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/pms.go/pkg/codec"
	"github.com/robotalks/pms.go/pkg/dbuf"
	"github.com/robotalks/pms.go/pkg/frame"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	Buffers     int
	BufferSize  int

	Shell *ishell.Shell
}

const (
	shellKey = "$shell"
	prompt   = "pms > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	buffers    = 4
	bufferSize = 1024

	// commands
	commands = []*ishell.Cmd{
		&FrameCmd,
		&RecordCmd,
		&SimCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.IntVar(&buffers, "buffers", buffers, "Number of log buffers used by sim.")
	flag.IntVar(&bufferSize, "buffer-size", bufferSize, "Size of log buffers used by sim.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Buffers:     buffers,
		BufferSize:  bufferSize,

		Shell: ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Print prints v as JSON if requested, or using text otherwise.
func Print(c *ishell.Context, v interface{}, text func() string) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text())
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// FrameCmd parses wire bytes.
	FrameCmd = ishell.Cmd{
		Name:    "frame",
		Aliases: []string{"f"},
		Help:    "HEX...",
		Func: func(c *ishell.Context) {
			raw, err := ParseHex(c.Args...)
			if err != nil {
				c.Err(fmt.Errorf("invalid HEX: %v", err))
				return
			}
			results, stats := ParseFrames(raw)
			if len(results) == 0 {
				results = []FrameResult{}
			}
			Print(c, results, func() string {
				var out string
				for _, res := range results {
					if res.Frame != nil {
						out += res.Frame.String() + "\n"
					} else {
						out += res.Error + "\n"
					}
				}
				return out + fmt.Sprintf("%d frames, %d rejected, %d checksum errors",
					stats.Frames, stats.Rejected, stats.ChecksumErrors)
			})
		},
	}

	// RecordCmd decodes a record encoded at the start of a buffer.
	RecordCmd = ishell.Cmd{
		Name:    "record",
		Aliases: []string{"r"},
		Help:    "short|long HEX...",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("VARIANT and HEX required"))
				return
			}
			variant, err := ParseVariant(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			raw, err := ParseHex(c.Args[1:]...)
			if err != nil {
				c.Err(fmt.Errorf("invalid HEX: %v", err))
				return
			}
			f, err := codec.DecodeRecord(variant, raw)
			if err != nil {
				c.Err(err)
				return
			}
			Print(c, f, f.String)
		},
	}

	// SimCmd logs simulated frames and verifies the log decodes.
	SimCmd = ishell.Cmd{
		Name: "sim",
		Help: "COUNT [short|long]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("COUNT required"))
				return
			}
			count, err := strconv.Atoi(c.Args[0])
			if err != nil || count < 0 {
				c.Err(fmt.Errorf("invalid COUNT: %s", c.Args[0]))
				return
			}
			variant := frame.Long
			if len(c.Args) > 1 {
				if variant, err = ParseVariant(c.Args[1]); err != nil {
					c.Err(err)
					return
				}
			}
			s := ShellFrom(c)
			if s.BufferSize < dbuf.MinBufferSize {
				s.BufferSize = dbuf.MinBufferSize
			}
			res, err := Simulate(variant, count, s.Buffers, s.BufferSize, time.Now().UnixNano())
			if err != nil {
				c.Err(err)
				return
			}
			Print(c, res, func() string {
				return fmt.Sprintf("%d frames, %d rotations, %d retained in %d buffers, %.2f bytes/record, verified %v",
					res.Frames, res.Rotations, res.Retained, res.Buffers, res.AvgRecord, res.Verified)
			})
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}
