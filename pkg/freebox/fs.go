package freebox

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/benmeehan/freebox-agent/pkg/file"
)

// FileInfo describes a file on the Freebox storage. Path is base64 encoded.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Mimetype     string `json:"mimetype"`
	Type         string `json:"type"`
	Size         int64  `json:"size"`
	Modification int64  `json:"modification"`
	Index        int    `json:"index"`
	Link         bool   `json:"link"`
	Target       string `json:"target,omitempty"`
	Hidden       bool   `json:"hidden"`
	FolderCount  int    `json:"foldercount"`
	FileCount    int    `json:"filecount"`
}

// IsDir reports whether the entry is a directory.
func (f FileInfo) IsDir() bool {
	return f.Type == "dir"
}

// FsTask is a long-running file operation.
type FsTask struct {
	ID             int      `json:"id"`
	Type           string   `json:"type"`
	State          string   `json:"state"`
	Error          string   `json:"error"`
	CreatedTS      int64    `json:"created_ts"`
	StartedTS      int64    `json:"started_ts"`
	DoneTS         int64    `json:"done_ts"`
	Duration       int64    `json:"duration"`
	Progress       int      `json:"progress"`
	ETA            int64    `json:"eta"`
	From           string   `json:"from"`
	To             string   `json:"to"`
	NFiles         int      `json:"nfiles"`
	NFilesDone     int      `json:"nfiles_done"`
	TotalBytes     int64    `json:"total_bytes"`
	TotalBytesDone int64    `json:"total_bytes_done"`
	CurrBytes      int64    `json:"curr_bytes"`
	CurrBytesDone  int64    `json:"curr_bytes_done"`
	Rate           int64    `json:"rate"`
	Src            []string `json:"src"`
	Dst            string   `json:"dst"`
}

// ListOptions tunes ListFiles.
type ListOptions struct {
	RemoveHidden   bool
	CountSubFolder bool
}

// Conflict modes for Copy and Move.
const (
	ConflictOverwrite = "overwrite"
	ConflictSkip      = "skip"
	ConflictRecent    = "recent"
	ConflictBoth      = "both"
)

// Fs wraps the fs/ and dl/ endpoints. Paths are given in clear and encoded
// here. The navigation helpers (Pwd, Cd, Ls) keep a current directory.
type Fs struct {
	access  *Access
	fileOps file.FileOperations

	mu   sync.Mutex
	path string
}

func encodePaths(paths []string) []string {
	encoded := make([]string, len(paths))
	for i, p := range paths {
		encoded[i] = encodePath(p)
	}
	return encoded
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ListFiles lists the content of the directory at p.
func (f *Fs) ListFiles(ctx context.Context, p string, opts ListOptions) ([]FileInfo, error) {
	query := url.Values{}
	query.Set("removeHidden", boolFlag(opts.RemoveHidden))
	query.Set("countSubFolder", boolFlag(opts.CountSubFolder))

	var files []FileInfo
	err := f.access.Get(ctx, "fs/ls/"+encodePath(p)+"?"+query.Encode(), &files)
	return files, err
}

// GetFileInfo returns the description of the file at p.
func (f *Fs) GetFileInfo(ctx context.Context, p string) (*FileInfo, error) {
	var info FileInfo
	if err := f.access.Get(ctx, "fs/info/"+encodePath(p), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Archive creates the archive dst from files.
func (f *Fs) Archive(ctx context.Context, files []string, dst string) (*FsTask, error) {
	return f.task(ctx, "fs/archive/", Object{"files": encodePaths(files), "dst": encodePath(dst)})
}

// Copy copies files into the directory dst. mode is one of the Conflict constants.
func (f *Fs) Copy(ctx context.Context, files []string, dst, mode string) (*FsTask, error) {
	return f.task(ctx, "fs/copy/", Object{"files": encodePaths(files), "dst": encodePath(dst), "mode": mode})
}

// Move moves files into the directory dst.
func (f *Fs) Move(ctx context.Context, files []string, dst, mode string) (*FsTask, error) {
	return f.task(ctx, "fs/mv/", Object{"files": encodePaths(files), "dst": encodePath(dst), "mode": mode})
}

// Remove deletes files.
func (f *Fs) Remove(ctx context.Context, files []string) (*FsTask, error) {
	return f.task(ctx, "fs/rm/", Object{"files": encodePaths(files)})
}

// ExtractRequest is the payload of Extract. Paths are in clear.
type ExtractRequest struct {
	Src           string
	Dst           string
	Password      string
	DeleteArchive bool
	Overwrite     bool
}

// Extract unpacks an archive.
func (f *Fs) Extract(ctx context.Context, req ExtractRequest) (*FsTask, error) {
	return f.task(ctx, "fs/extract/", Object{
		"src":            encodePath(req.Src),
		"dst":            encodePath(req.Dst),
		"password":       req.Password,
		"delete_archive": req.DeleteArchive,
		"overwrite":      req.Overwrite,
	})
}

// Hash starts computing the hash of src; hashType is md5, sha1, sha256 or sha512.
func (f *Fs) Hash(ctx context.Context, src, hashType string) (*FsTask, error) {
	return f.task(ctx, "fs/hash/", Object{"src": encodePath(src), "hash_type": hashType})
}

func (f *Fs) task(ctx context.Context, endpoint string, payload Object) (*FsTask, error) {
	var task FsTask
	if err := f.access.Post(ctx, endpoint, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Mkdir creates dirname inside parent and returns its encoded path.
func (f *Fs) Mkdir(ctx context.Context, parent, dirname string) (string, error) {
	var created string
	err := f.access.Post(ctx, "fs/mkdir/", Object{"parent": encodePath(parent), "dirname": dirname}, &created)
	return created, err
}

// Mkpath creates p and its missing parents.
func (f *Fs) Mkpath(ctx context.Context, p string) (string, error) {
	var created string
	err := f.access.Post(ctx, "fs/mkpath/", Object{"path": encodePath(p)}, &created)
	return created, err
}

// Rename gives src the new name dst, within the same directory.
func (f *Fs) Rename(ctx context.Context, src, dst string) (*FileInfo, error) {
	var info FileInfo
	if err := f.access.Post(ctx, "fs/rename/", Object{"src": encodePath(src), "dst": dst}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetTasks lists the file operations.
func (f *Fs) GetTasks(ctx context.Context) ([]FsTask, error) {
	var tasks []FsTask
	err := f.access.Get(ctx, "fs/tasks/", &tasks)
	return tasks, err
}

// GetTask returns one file operation.
func (f *Fs) GetTask(ctx context.Context, id int) (*FsTask, error) {
	var task FsTask
	if err := f.access.Get(ctx, "fs/tasks/"+itoa(id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetTaskState pauses ("paused") or resumes ("running") a file operation.
func (f *Fs) SetTaskState(ctx context.Context, id int, state string) (*FsTask, error) {
	var task FsTask
	if err := f.access.Put(ctx, "fs/tasks/"+itoa(id), Object{"state": state}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a file operation.
func (f *Fs) DeleteTask(ctx context.Context, id int) error {
	return f.access.Delete(ctx, "fs/tasks/"+itoa(id), nil, nil)
}

// GetTaskHash returns the result of a finished hash operation.
func (f *Fs) GetTaskHash(ctx context.Context, id int) (string, error) {
	var hash string
	err := f.access.Get(ctx, "fs/tasks/"+itoa(id)+"/hash", &hash)
	return hash, err
}

// Download copies the remote file at p into localPath and returns the byte count.
func (f *Fs) Download(ctx context.Context, p, localPath string) (int64, error) {
	body, err := f.access.stream(ctx, "dl/"+encodePath(p))
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := f.fileOps.WriteStream(localPath, body)
	if err != nil {
		return n, fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	return n, nil
}

// Pwd returns the current directory.
func (f *Fs) Pwd() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

// Cd changes the current directory. Relative paths are resolved against it.
func (f *Fs) Cd(ctx context.Context, p string) error {
	target := f.resolve(p)
	if target != "/" {
		info, err := f.GetFileInfo(ctx, target)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", target)
		}
	}

	f.mu.Lock()
	f.path = target
	f.mu.Unlock()
	return nil
}

// Ls returns the names of the entries of the current directory.
func (f *Fs) Ls(ctx context.Context) ([]string, error) {
	files, err := f.ListFiles(ctx, f.Pwd(), ListOptions{RemoveHidden: true})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, info := range files {
		if info.Name == "." || info.Name == ".." {
			continue
		}
		names = append(names, info.Name)
	}
	return names, nil
}

func (f *Fs) resolve(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = path.Join(f.Pwd(), p)
	}
	return path.Clean("/" + p)
}
