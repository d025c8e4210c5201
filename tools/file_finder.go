package tools

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/terravue/surveytiler/internal/tiler"
)

// Extensions the tiler recognizes as survey inputs
var surveyExtensions = map[string]bool{
	".tin":  true,
	".mesh": true,
}

type FileFinder interface {
	GetSurveyFilesToProcess(opts *tiler.TilerOptions) []string
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetSurveyFilesToProcess(opts *tiler.TilerOptions) []string {
	// If folder processing is not enabled the survey file is given by the
	// input flag directly, otherwise look for survey files in the input
	// folder, eventually excluding nested folders if the recursive flag is
	// disabled
	if !opts.FolderProcessing {
		return []string{opts.Input}
	}

	return f.getSurveyFilesFromInputFolder(opts)
}

func (f *StandardFileFinder) getSurveyFilesFromInputFolder(opts *tiler.TilerOptions) []string {
	var surveyFiles = make([]string, 0)

	baseInfo, _ := os.Stat(opts.Input)
	err := filepath.Walk(
		opts.Input,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !opts.Recursive && !os.SameFile(info, baseInfo) {
				return filepath.SkipDir
			}
			if !info.IsDir() && surveyExtensions[strings.ToLower(filepath.Ext(info.Name()))] {
				surveyFiles = append(surveyFiles, path)
			}
			return nil
		},
	)

	if err != nil {
		log.Fatal(err)
	}

	return surveyFiles
}
