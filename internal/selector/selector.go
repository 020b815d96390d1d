// Package selector walks the user through Drive folders and uploads a file to the one they pick.
package selector

import (
	"context"
	"fmt"
	"gsuitetool/internal/apierrors"
	"gsuitetool/internal/gdrive"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
)

const (
	choiceBack   = "Go back to parent folder"
	choiceUpload = "Upload to current folder"
	choiceCreate = "Create a new folder"

	fixedChoices = 3
	rootFolderID = "root"
)

// Drive is the part of the Drive facade the selector needs.
type Drive interface {
	ListFolders(ctx context.Context, parentID string) ([]gdrive.FileInfo, error)
	GetFolderPath(ctx context.Context, folderID string) (string, error)
	GetFileMetadata(ctx context.Context, fileID string) (*drive.File, error)
	CreateFolder(ctx context.Context, folderName, parentID string) (gdrive.FileInfo, error)
	UploadFile(ctx context.Context, filePath, fileName, parentID string) (gdrive.FileInfo, error)
}

type Prompter interface {
	// Select shows message and choices and returns the index of the picked choice.
	Select(message string, choices []string) (int, error)
	Input(message string) (string, error)
}

type Selector struct {
	logger    *zap.Logger
	drive     Drive
	prompter  Prompter
	separator string
}

func New(logger *zap.Logger, d Drive, prompter Prompter, separator string) *Selector {
	if separator == "" {
		separator = "/"
	}
	return &Selector{
		logger:    logger,
		drive:     d,
		prompter:  prompter,
		separator: separator,
	}
}

// SelectFolderAndUpload starts at startFolder (the root when empty), lets the user navigate
// and create folders, then uploads filePath into the chosen folder. It returns the remote
// path of the uploaded file.
func (s *Selector) SelectFolderAndUpload(ctx context.Context, filePath, fileName, startFolder string) (string, error) {
	current := startFolder
	if current == "" {
		current = rootFolderID
	}

	for {
		folders, err := s.drive.ListFolders(ctx, current)
		if err != nil {
			return "", err
		}
		path, err := s.drive.GetFolderPath(ctx, current)
		if err != nil {
			return "", err
		}

		choices := make([]string, 0, fixedChoices+len(folders))
		choices = append(choices, choiceBack, choiceUpload, choiceCreate)
		for _, f := range folders {
			choices = append(choices, f.Name)
		}

		idx, err := s.prompter.Select(
			fmt.Sprintf("Current directory: %s. Select a folder to upload the file", path), choices)
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(choices) {
			return "", apierrors.NewValidationError(fmt.Sprintf("choice %d out of range", idx), nil)
		}

		switch idx {
		case 0:
			meta, err := s.drive.GetFileMetadata(ctx, current)
			if err != nil {
				return "", err
			}
			if len(meta.Parents) > 0 {
				current = meta.Parents[0]
			}
		case 1:
			uploaded, err := s.drive.UploadFile(ctx, filePath, fileName, current)
			if err != nil {
				return "", err
			}
			remote := path + s.separator + uploaded.Name
			s.logger.Info("uploaded selected file", zap.String("remote", remote), zap.String("id", uploaded.ID))
			return remote, nil
		case 2:
			name, err := s.prompter.Input("Enter the name of the new folder")
			if err != nil {
				return "", err
			}
			folder, err := s.drive.CreateFolder(ctx, name, current)
			if err != nil {
				return "", err
			}
			s.logger.Info("created new folder", zap.String("name", name), zap.String("id", folder.ID))
			current = folder.ID
		default:
			current = folders[idx-fixedChoices].ID
		}
	}
}
