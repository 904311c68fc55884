package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/tracerec/cas"
	"github.com/timewinder-dev/tracerec/config"
	"github.com/timewinder-dev/tracerec/format"
	"github.com/timewinder-dev/tracerec/record"
	"github.com/timewinder-dev/tracerec/stream"
)

var (
	configPath string
	dedupFlag  bool
	printaFlag string
	maxFrames  int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect STREAMFILE",
	Short: "Print the records in a stream",
	Args:  cobra.ExactArgs(1),
	Run:   inspectCommand,
}

func init() {
	inspectCmd.Flags().StringVar(&configPath, "config", "", "TOML or YAML config file")
	inspectCmd.Flags().BoolVar(&dedupFlag, "dedup", false, "Collapse equal records and print a count for each")
	inspectCmd.Flags().StringVar(&printaFlag, "printa", "", "printa()-style format applied to each record")
	inspectCmd.Flags().IntVar(&maxFrames, "max-frames", -1, "Limit the frames printed per stack (overrides config)")
}

func inspectCommand(cmd *cobra.Command, args []string) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't load config")
		}
	}
	setColor(cfg.Format.Color)

	f := &format.Formatter{Indent: cfg.Format.Indent, MaxFrames: cfg.Format.MaxFrames}
	if maxFrames >= 0 {
		f.MaxFrames = maxFrames
	}

	file, err := os.Open(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't open stream")
	}
	defer file.Close()
	r, err := stream.NewReader(file)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't read stream header")
	}
	defer r.Close()
	log.Info().Str("session", r.Header().SessionID).Msg("Reading record stream")

	var store *cas.LRUCache
	var mem *cas.MemoryStore
	var order []cas.Hash
	if dedupFlag {
		mem = cas.NewMemoryStore()
		store = cas.NewLRUCache(mem, cfg.Store.CacheSize)
	}

	n := 0
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal().Err(err).Int("record", n).Msg("Couldn't decode record")
		}
		n++
		if store == nil {
			printRecord(f, rec, nil)
			continue
		}
		h := cas.HashOf(rec)
		if !store.Has(h) {
			order = append(order, h)
		}
		if _, err := store.Put(rec); err != nil {
			log.Fatal().Err(err).Msg("Couldn't store record")
		}
	}

	for _, h := range order {
		rec, err := store.Get(h)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't load record")
		}
		printRecord(f, rec, record.NewScalarInt(int64(mem.Count(h))))
	}

	fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("%d records", n))
	if store != nil {
		fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("%d distinct", mem.Len()))
	}
}

func printRecord(f *format.Formatter, rec record.ValueRecord, count record.ValueRecord) {
	key, err := record.NewTuple(rec)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build tuple")
	}
	if printaFlag != "" {
		mask, err := format.DecodeMask(printaFlag, key.Len())
		if err != nil {
			log.Fatal().Err(err).Msg("Bad printa format")
		}
		if s, ok := rec.(*record.StackValueRecord); ok && mask[0] && !s.Decoded() {
			log.Warn().Str("kind", s.Kind().String()).Msg("Stack was recorded without frames")
		}
	}
	out, err := f.Printa(printaFlag, key, count)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't format record")
	}
	fmt.Print(out)
}

func setColor(mode string) {
	switch mode {
	case "always":
		color.Enable = true
	case "never":
		color.Enable = false
	default:
		color.Enable = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}
