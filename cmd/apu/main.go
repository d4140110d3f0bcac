package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running apu", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "apu"
	app.Description = "A five channel tracker sound processor"
	app.Usage = "apu <command> [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable coloured output",
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.Bool("no-color") {
			disableColor()
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "play",
			Usage:     "Play a song file",
			ArgsUsage: "<song.json|song.yaml>",
			Flags:     playFlags(),
			Action:    runPlay,
		},
		{
			Name:      "inspect",
			Usage:     "Print tempo, instruments and pattern rows of a song file",
			ArgsUsage: "<song.json|song.yaml>",
			Flags:     tempoFlags(),
			Action:    runInspect,
		},
		{
			Name:  "cell",
			Usage: "Encode and decode pattern cell words",
			Subcommands: []cli.Command{
				{
					Name:      "decode",
					Usage:     "Show the fields of a cell word",
					ArgsUsage: "<hex word>...",
					Action:    runCellDecode,
				},
				{
					Name:   "encode",
					Usage:  "Build a cell word from fields; omitted fields stay absent",
					Flags:  cellFlags(),
					Action: runCellEncode,
				},
			},
		},
	}
	return app
}

func tempoFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "bps",
			Usage: "Override the song's rows per second (0 = keep)",
		},
		cli.IntFlag{
			Name:  "tpb",
			Usage: "Override the song's ticks per row (0 = keep)",
		},
	}
}
