package mada

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
)

const MadaExtension = ".mada"

type MadaFile struct {
	Board  string
	Period int
	Path   string
}

// MadaFileName returns the run file name of a board and period, e.g. GBKB-00_0001.mada.
func MadaFileName(board string, period int) string {
	return fmt.Sprintf("%s_%04d%s", board, period, MadaExtension)
}

// ScanMadaFiles lists the files of every active board for periods
// initialPeriod..finalPeriod, ordered by period and then board. Every file must exist.
func ScanMadaFiles(dir string, config MadaConfig, initialPeriod, finalPeriod int) ([]MadaFile, error) {
	if finalPeriod < initialPeriod {
		return nil, fmt.Errorf("final period %d before initial period %d", finalPeriod, initialPeriod)
	}

	var files []MadaFile
	for _, board := range config.ActiveBoards() {
		for period := initialPeriod; period <= finalPeriod; period++ {
			files = append(files, MadaFile{
				Board:  board.Name(),
				Period: period,
				Path:   filepath.Join(dir, MadaFileName(board.Name(), period)),
			})
		}
	}

	for _, file := range files {
		if _, err := os.Stat(file.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &ErrFileNotFound{Path: file.Path}
			}
			return nil, err
		}
	}

	slices.SortStableFunc(files, func(a, b MadaFile) int {
		if a.Period != b.Period {
			return a.Period - b.Period
		}
		switch {
		case a.Board < b.Board:
			return -1
		case a.Board > b.Board:
			return 1
		}
		return 0
	})
	return files, nil
}

// GroupFilesByBoard builds the aggregation input, keeping file order within a board
// and ordering boards by first appearance.
func GroupFilesByBoard(files []MadaFile) []BoardFiles {
	var boards []BoardFiles
	index := make(map[string]int)
	for _, file := range files {
		i, ok := index[file.Board]
		if !ok {
			i = len(boards)
			index[file.Board] = i
			boards = append(boards, BoardFiles{Board: file.Board})
		}
		boards[i].Files = append(boards[i].Files, file.Path)
	}
	return boards
}
