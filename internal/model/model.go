// Package model holds the data types shared across the collection
// pipeline: FileReference, AttributeRef, Match, ContentSpec, SampleSpec,
// Limits and Sample, exactly as laid out in the collection-pipeline
// specification's data model section. Nothing here talks to disk or to a
// finder; these are plain value types and small mutable accumulators.
package model

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// AttrType is the NTFS attribute type enumeration used by Match,
// AttributeRef and the CSV report's exact-flags column. Values match the
// on-disk NTFS attribute type codes.
type AttrType uint32

const (
	AttrUnused               AttrType = 0
	AttrStandardInformation  AttrType = 16
	AttrAttributeList        AttrType = 32
	AttrFileName             AttrType = 48
	AttrObjectID             AttrType = 64
	AttrSecurityDescriptor   AttrType = 80
	AttrVolumeName           AttrType = 96
	AttrVolumeInformation    AttrType = 112
	AttrData                 AttrType = 128
	AttrIndexRoot            AttrType = 144
	AttrIndexAllocation      AttrType = 160
	AttrBitmap               AttrType = 176
	AttrReparsePoint         AttrType = 192
	AttrEAInformation        AttrType = 208
	AttrEA                   AttrType = 224
	AttrLoggedUtilityStream  AttrType = 256
	AttrFirstUserDefined     AttrType = 4096
	AttrEnd                  AttrType = 0xFFFFFFFF
)

func (t AttrType) String() string {
	switch t {
	case AttrUnused:
		return "$UNUSED"
	case AttrStandardInformation:
		return "$STANDARD_INFORMATION"
	case AttrAttributeList:
		return "$ATTRIBUTE_LIST"
	case AttrFileName:
		return "$FILE_NAME"
	case AttrObjectID:
		return "$OBJECT_ID"
	case AttrSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case AttrVolumeName:
		return "$VOLUME_NAME"
	case AttrVolumeInformation:
		return "$VOLUME_INFORMATION"
	case AttrData:
		return "$DATA"
	case AttrIndexRoot:
		return "$INDEX_ROOT"
	case AttrIndexAllocation:
		return "$INDEX_ALLOCATION"
	case AttrBitmap:
		return "$BITMAP"
	case AttrReparsePoint:
		return "$REPARSE_POINT"
	case AttrEAInformation:
		return "$EA_INFORMATION"
	case AttrEA:
		return "$EA"
	case AttrLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	case AttrFirstUserDefined:
		return "$FIRST_USER_DEFINED_ATTRIBUTE"
	case AttrEnd:
		return "$END"
	default:
		return "$UNKNOWN"
	}
}

// FileNameRecord is the on-disk $FILE_NAME attribute payload needed to
// derive a deterministic sample name: the parent directory's file
// reference split into its three NTFS fields, plus the file name itself.
type FileNameRecord struct {
	ParentSequenceNumber      uint16
	ParentSegmentNumberHigh   uint16
	ParentSegmentNumberLow    uint32
	FileName                  string
	FileNameLength            uint8
	Info                      StandardTimes
}

// StandardTimes are the four NTFS timestamps carried by both
// $STANDARD_INFORMATION and $FILE_NAME records.
type StandardTimes struct {
	CreationTime         time.Time
	LastModificationTime time.Time
	LastAccessTime       time.Time
	LastChangeTime       time.Time
}

// FileReference identifies one name for a file record: the parent
// directory's reference, the name itself, and the backing $FILE_NAME
// record used to format it.
type FileReference struct {
	ParentDirReference uint64
	FileName           string
	NameLength         uint16
	FullPathName       string
	Record             *FileNameRecord
}

// AttributeRef describes one named NTFS attribute of a matched file.
type AttributeRef struct {
	Index      uint32
	Type       AttrType
	AttrName   string
	InstanceID uint16

	DataStream RangeReadSeeker
	RawStream  RangeReadSeeker

	YaraRules []string
}

// CryptoHasher is implemented by the stream pipeline's crypto-hash tee
// stage; it exposes the finalized digests once the wrapped stream has
// been fully read.
type CryptoHasher interface {
	MD5() []byte
	SHA1() []byte
	SHA256() []byte
}

// FuzzyHasher is implemented by the stream pipeline's fuzzy-hash tee
// stage; it exposes the finalized fuzzy hashes once the wrapped stream
// has been fully read.
type FuzzyHasher interface {
	SSDeep() string
	TLSH() string
}

// RangeReadSeeker is the minimal capability a base stream needs to support
// to be consumed by the stream pipeline: seekable reads and a known size.
type RangeReadSeeker interface {
	io.ReadSeeker
	Size() int64
}

// VolumeReader is the subset of the external VolumeReader contract
// (spec.md §6) the collection pipeline actually consumes.
type VolumeReader interface {
	VolumeSerialNumber() uint64
}

// SnapshotVolumeReader additionally exposes the snapshot that a match was
// produced through.
type SnapshotVolumeReader interface {
	VolumeReader
	SnapshotID() uuid.UUID
}

// RuleDescriptor names the rule ("term") that produced a match. A SampleSpec
// owns a set of these; a Match carries exactly one.
type RuleDescriptor struct {
	Description string
}

// Match is one file-finder hit: the matched file record, the volume it was
// found on, its standard-information times, every name under which it was
// matched, and every attribute the matching rule cared about.
type Match struct {
	FileRecordNumber  uint64
	VolumeReader       VolumeReader
	StandardInfo      StandardTimes
	MatchingNames      []FileReference
	MatchingAttributes []AttributeRef
	Term               *RuleDescriptor
}

// ContentType selects which stream of an attribute to read and whether to
// transform it.
type ContentType int

const (
	ContentData ContentType = iota
	ContentStrings
	ContentRaw
)

func (c ContentType) Tag() string {
	switch c {
	case ContentData:
		return "data"
	case ContentStrings:
		return "strings"
	case ContentRaw:
		return "raw"
	default:
		return ""
	}
}

// ContentSpec selects a stream and, for STRINGS, its character-length
// bounds.
type ContentSpec struct {
	Type     ContentType
	MinChars int
	MaxChars int
}

// Limits is the shared shape used by both the global and each rule's
// per-sample quota. Accumulators and sticky flags are mutated in place as
// the run progresses; once a sticky flag is true it is never cleared.
type Limits struct {
	MaxSampleCount    uint64 // Unlimited sentinel: math.MaxUint64
	MaxBytesPerSample uint64
	MaxBytesTotal     uint64
	IgnoreLimits      bool

	AccumulatedSampleCount uint64
	AccumulatedBytesTotal  uint64

	SampleCountReached    bool
	PerSampleBytesReached bool
	TotalBytesReached     bool
}

// Unlimited is the sentinel meaning "no cap" for any Limits field expressed
// in sample count or bytes.
const Unlimited = ^uint64(0)

// SampleSpec is one rule entry of the collection catalog: the rule's name
// (used as an archive-entry name prefix when non-empty), the set of terms
// it applies to, the content transform it wants, and its own quota.
type SampleSpec struct {
	Name              string
	Terms             []*RuleDescriptor
	Content           ContentSpec
	PerSampleLimits   *Limits
}

// SampleKey is the SampleRegistry's unique identity for a Sample:
// (volume-serial, frn, attribute-instance-id).
type SampleKey struct {
	VolumeSerial uint64
	FRN          uint64
	InstanceID   uint16
}

// Sample is one registry element: a deduplicated (file-record, attribute)
// pair, its chosen name, its streams, and its finalized hashes.
type Sample struct {
	Key SampleKey

	Matches       []*Match
	AttributeIndex uint32
	SnapshotID     uuid.UUID

	Content      ContentSpec
	SampleName   string
	CollectionDate time.Time
	OffLimits    bool
	Size         uint64

	HashStream      CryptoHasher
	FuzzyHashStream FuzzyHasher
	CopyStream      io.ReadCloser

	MD5    []byte
	SHA1   []byte
	SHA256 []byte
	SSDeep string
	TLSH   string
}
