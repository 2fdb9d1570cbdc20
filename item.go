package dotdirectory

import (
	"path/filepath"
	"strings"
)

// Decides which protocol a path is stored with. Hosts with their own media
// source registry supply one per item instead of sharing a global.
type ProtocolResolver interface {
	PathProtocol(path string) Protocol
}

type ProtocolResolverFunc func(path string) Protocol

func (f ProtocolResolverFunc) PathProtocol(path string) Protocol {
	return f(path)
}

var schemeProtocols = map[string]Protocol{
	"http":  ProtocolHTTP,
	"https": ProtocolHTTP,
	"rtsp":  ProtocolRTSP,
	"rtmp":  ProtocolRTMP,
	"udp":   ProtocolUDP,
	"ftp":   ProtocolFTP,
	"mms":   ProtocolMMS,
	"file":  ProtocolFile,
}

// DetectProtocol classifies path by its URI scheme. Paths without a scheme,
// including Windows drive paths, are files.
func DetectProtocol(path string) Protocol {
	scheme, _, ok := strings.Cut(path, "://")
	if !ok || scheme == "" || strings.ContainsAny(scheme, `/\`) {
		return ProtocolFile
	}
	if p, ok := schemeProtocols[strings.ToLower(scheme)]; ok {
		return p
	}
	return ProtocolOther
}

// FileItem is an Item backed by a plain filesystem path.
type FileItem struct {
	ItemPath string
	ItemKind ItemKind

	// Protocols overrides DetectProtocol when set.
	Protocols ProtocolResolver
}

func NewFileItem(path string, kind ItemKind) *FileItem {
	return &FileItem{ItemPath: path, ItemKind: kind}
}

func (fi *FileItem) Path() string {
	return fi.ItemPath
}

func (fi *FileItem) Kind() ItemKind {
	return fi.ItemKind
}

func (fi *FileItem) Protocol() Protocol {
	if fi.Protocols != nil {
		return fi.Protocols.PathProtocol(fi.ItemPath)
	}
	return DetectProtocol(fi.ItemPath)
}

func (fi *FileItem) ContainingFolderPath() string {
	return filepath.Dir(fi.ItemPath)
}
