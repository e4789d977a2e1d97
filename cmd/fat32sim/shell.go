// fat32sim's shell is an interactive REPL over one gofat32 engine,
// dispatching each typed line through an urfave/cli/v2 App the same way a
// typical cli.App dispatches its top-level subcommands, just re-run once
// per line instead of once per process invocation.
package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	ferr "github.com/kjhartley/gofat32/errors"

	"github.com/kjhartley/gofat32"
	"github.com/kjhartley/gofat32/dirent"
	"github.com/kjhartley/gofat32/engine"
	"github.com/kjhartley/gofat32/fatname"
	"github.com/kjhartley/gofat32/stream"
)

// dirFrame is one entry on the shell's cd stack.
type dirFrame struct {
	name  string
	entry *dirent.Entry // nil for the root
	file  *stream.Stream
}

// Shell holds the REPL's mutable state: the engine and the chain of
// directories navigated via cd.
type Shell struct {
	eng   *engine.Engine
	stack []dirFrame
	app   *cli.App
}

// NewShell builds a shell rooted at eng's root directory.
func NewShell(eng *engine.Engine) *Shell {
	s := &Shell{eng: eng}
	s.stack = []dirFrame{{name: "/", entry: nil, file: eng.RootStream()}}
	s.app = s.buildApp()
	return s
}

func (s *Shell) cwd() *stream.Stream {
	return s.stack[len(s.stack)-1].file
}

// Prompt renders the current path for display before each line is read.
func (s *Shell) Prompt() string {
	names := make([]string, 0, len(s.stack))
	for _, f := range s.stack {
		names = append(names, f.name)
	}
	return strings.Join(names, "") + "> "
}

// Dispatch parses and runs one typed line.
func (s *Shell) Dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	args := append([]string{"fat32sim"}, fields...)
	return s.app.Run(args)
}

func (s *Shell) buildApp() *cli.App {
	return &cli.App{
		Name:                   "fat32sim",
		Usage:                  "simulate a FAT32-style disk",
		UsageText:              "commands: ls, cd, open, new, mkdir, write, rm, stat, help, disk, exit",
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			{Name: "ls", Usage: "list the current directory", Action: s.cmdLs},
			{Name: "cd", Usage: "change directory (.. for parent)", Action: s.cmdCd},
			{Name: "open", Usage: "print a file's contents", Action: s.cmdOpen},
			{Name: "new", Usage: "create an empty file", Action: s.cmdNew},
			{Name: "mkdir", Usage: "create a subdirectory", Action: s.cmdMkdir},
			{Name: "write", Usage: "replace a file's contents with one line", Action: s.cmdWrite},
			{Name: "rm", Usage: "remove a file or (empty of protected entries) directory", Action: s.cmdRm},
			{Name: "stat", Usage: "show an entry's attributes", Action: s.cmdStat},
			{Name: "disk", Usage: "dump every cluster's raw contents", Action: s.cmdDisk},
			{Name: "exit", Usage: "quit the shell", Action: s.cmdExit},
		},
	}
}

func (s *Shell) cmdLs(c *cli.Context) error {
	entries, err := s.eng.ListEntries(s.cwd(), true)
	if err != nil {
		return err
	}
	for _, e := range entries {
		st := s.eng.StatEntry(e)
		marker := ""
		if st.IsDirectory {
			marker = "/"
		}
		fmt.Printf("%s%s\n", st.Name, marker)
	}
	return nil
}

func (s *Shell) cmdCd(c *cli.Context) error {
	target := c.Args().First()
	if target == "" {
		return fmt.Errorf("cd: missing argument")
	}

	if target == ".." {
		if len(s.stack) == 1 {
			return fmt.Errorf("cd: already at root")
		}
		s.stack = s.stack[:len(s.stack)-1]
		return nil
	}

	entry, ok, err := s.eng.GetEntry(s.cwd(), target)
	if err != nil {
		return err
	}
	if !ok {
		return ferr.ErrNotFound
	}
	if !entry.IsSubdirectory() {
		return ferr.ErrNotADirectory
	}

	sub, err := s.eng.OpenDir(&entry)
	if err != nil {
		return err
	}
	s.stack = append(s.stack, dirFrame{name: target + "/", entry: &entry, file: sub})
	return nil
}

func (s *Shell) cmdOpen(c *cli.Context) error {
	name := c.Args().First()
	entry, ok, err := s.eng.GetEntry(s.cwd(), name)
	if err != nil {
		return err
	}
	if !ok {
		return ferr.ErrNotFound
	}
	if entry.IsSubdirectory() {
		return ferr.ErrIsADirectory
	}

	f := s.eng.OpenEntry(&entry)
	buf := make([]byte, entry.Size)
	if _, err := f.Read(buf); err != nil {
		return err
	}
	if err := s.eng.CloseEntry(&entry, f); err != nil {
		return err
	}
	// GetEntry left the cwd stream at entry's record; store the new
	// access date there.
	if err := s.eng.WriteEntryAt(s.cwd(), entry); err != nil {
		return err
	}
	fmt.Printf("%s\n", string(buf))
	return nil
}

func (s *Shell) cmdNew(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("new: missing name")
	}
	if _, ok, _ := s.eng.GetEntry(s.cwd(), name); ok {
		return ferr.ErrExists
	}
	_, err := s.eng.NewEntry(s.cwd(), name, 0)
	return err
}

func (s *Shell) cmdMkdir(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("mkdir: missing name")
	}
	if _, ok, _ := s.eng.GetEntry(s.cwd(), name); ok {
		return ferr.ErrExists
	}

	entry, err := s.eng.NewEntry(s.cwd(), name, gofat32.AttrSubdirectory)
	if err != nil {
		return err
	}

	sub, err := s.eng.OpenDir(&entry)
	if err != nil {
		return err
	}

	// Per the Open Question resolution: the shell, not NewEntry, writes
	// the ".." entry for a freshly created subdirectory. It has no
	// cluster of its own, so it's authored directly rather than through
	// NewEntry (which would allocate one it doesn't need).
	parent := s.stack[len(s.stack)-1]
	parentAddr := s.eng.RootAddress()
	if parent.entry != nil {
		parentAddr = parent.entry.FirstCluster
	}

	dotdotName, dotdotExt, err := fatname.Parse("..")
	if err != nil {
		return err
	}
	now := s.eng.Now()
	dotdot := dirent.Entry{
		Name:         dotdotName,
		Ext:          dotdotExt,
		Attribs:      gofat32.AttrSystem | gofat32.AttrSubdirectory,
		FirstCluster: parentAddr,
		Created:      now,
		LastAccessed: now,
		LastModified: now,
	}
	return s.eng.WriteEntryAt(sub, dotdot)
}

func (s *Shell) cmdWrite(c *cli.Context) error {
	args := c.Args().Slice()
	if len(args) < 1 {
		return fmt.Errorf("write: missing name")
	}
	name := args[0]
	line := strings.Join(args[1:], " ")

	entry, ok, err := s.eng.GetEntry(s.cwd(), name)
	if err != nil {
		return err
	}
	if !ok {
		return ferr.ErrNotFound
	}
	if entry.IsSubdirectory() {
		return ferr.ErrIsADirectory
	}

	if err := s.eng.ClearEntry(&entry); err != nil {
		return err
	}
	f := s.eng.OpenEntry(&entry)
	if _, err := f.Write([]byte(line)); err != nil {
		return err
	}
	if err := s.eng.CloseEntry(&entry, f); err != nil {
		return err
	}
	// GetEntry left the cwd stream at entry's record; store the new
	// cluster, size and timestamps there.
	return s.eng.WriteEntryAt(s.cwd(), entry)
}

func (s *Shell) cmdRm(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("rm: missing name")
	}
	return s.eng.RemoveEntry(s.cwd(), name)
}

func (s *Shell) cmdStat(c *cli.Context) error {
	name := c.Args().First()
	entry, ok, err := s.eng.GetEntry(s.cwd(), name)
	if err != nil {
		return err
	}
	if !ok {
		return ferr.ErrNotFound
	}
	st := s.eng.StatEntry(entry)
	fmt.Printf("name: %s\n", st.Name)
	fmt.Printf("directory: %v\n", st.IsDirectory)
	fmt.Printf("size: %d\n", st.Size)
	fmt.Printf("first cluster: %d\n", st.FirstCluster.Index())
	fmt.Printf("created: %s\n", st.Created)
	fmt.Printf("last accessed: %s\n", st.LastAccessed)
	fmt.Printf("last modified: %s\n", st.LastModified)
	return nil
}

func (s *Shell) cmdDisk(c *cli.Context) error {
	dump, err := s.eng.DumpClusters()
	if err != nil {
		return err
	}
	fmt.Print(dump)
	return nil
}

var errExit = fmt.Errorf("exit")

func (s *Shell) cmdExit(c *cli.Context) error {
	return errExit
}
