package services

import (
	"io"

	"chantierpro/internal/enums"
	"chantierpro/internal/interfaces"
)

type FileManagerService struct {
	fileManager interfaces.FileManager
}

func NewFileManagerService(fileManager interfaces.FileManager) *FileManagerService {
	return &FileManagerService{
		fileManager: fileManager,
	}
}

func (fs *FileManagerService) UploadUserProfilePhoto(fileName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	return fs.fileManager.UploadFile(fileName, file, fileSize, contentType, enums.FILE_BUCKET_USER_PROFILE)
}

// UploadMessagePhoto stores a photo attachment and returns the URL that the
// message will carry in its photos list.
func (fs *FileManagerService) UploadMessagePhoto(fileName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	return fs.fileManager.UploadFile(fileName, file, fileSize, contentType, enums.FILE_BUCKET_MESSAGE_PHOTOS)
}
