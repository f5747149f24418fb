// Package main is the entry point for the musiz CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rain1024/musiz/pkg/api"
	"github.com/rain1024/musiz/pkg/notation"
	"github.com/rain1024/musiz/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	keySig     string
	semitones  int
	verbose    bool
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "musiz",
	Short: "Convert and transpose music notation files",
	Long: `musiz is a tool for converting between ABC notation and MusicXML,
exporting scores as Standard MIDI Files, and transposing pitches.

Examples:
  musiz convert ode_to_joy.abc -o ode_to_joy.musicxml
  musiz convert song.musicxml -o song.abc -k D
  musiz transpose song.abc -s 2 -o song_up.abc
  musiz tui
  musiz serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a notation file to another format",
	Long:  `Reads the input file and writes it in the format implied by the output file extension (.abc, .xml, .musicxml, .mid).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var transposeCmd = &cobra.Command{
	Use:   "transpose <input>",
	Short: "Transpose a notation file by semitones",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranspose,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print verbose output")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	convertCmd.Flags().StringVarP(&keySig, "key", "k", "C", "Key signature for ABC output (e.g. C, D, Dm, G)")
	_ = convertCmd.MarkFlagRequired("output")

	transposeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	transposeCmd.Flags().IntVarP(&semitones, "semitones", "s", 0, "Semitones to transpose (positive = up, negative = down)")
	transposeCmd.Flags().StringVarP(&keySig, "key", "k", "C", "Key signature for ABC output")
	_ = transposeCmd.MarkFlagRequired("output")
	_ = transposeCmd.MarkFlagRequired("semitones")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(transposeCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	if verbose {
		s, err := notation.ReadScore(input)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded: %s\n", s)
	}

	fmt.Printf("Converting %s -> %s\n", input, outputFile)
	if err := notation.ConvertFile(input, outputFile, keySig); err != nil {
		return err
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runTranspose(cmd *cobra.Command, args []string) error {
	input := args[0]

	if verbose {
		s, err := notation.ReadScore(input)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded: %s\n", s)
	}

	fmt.Printf("Transposing %s by %+d semitones -> %s\n", input, semitones, outputFile)
	if err := notation.TransposeFile(input, outputFile, semitones, keySig); err != nil {
		return err
	}
	fmt.Println("Transposition complete!")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
