package sharing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
)

// Format identifies the table format an action line was emitted for.
type Format string

const (
	// FormatParquet marks actions for parquet-format responses.
	FormatParquet Format = "parquet"

	// FormatDelta marks actions for delta-format responses.
	FormatDelta Format = "delta"
)

// TableAction is a single line of a table metadata, data, or changes
// response. Servers stream these as newline-delimited JSON; exactly one of
// the fields is set per line.
type TableAction struct {
	Protocol *ProtocolAction `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Metadata *MetadataAction `json:"metaData,omitempty" yaml:"metaData,omitempty"`
	File     *FileAction     `json:"file,omitempty"     yaml:"file,omitempty"`
}

// IsProtocol reports whether the action is a protocol line.
func (a *TableAction) IsProtocol() bool {
	return a.Protocol != nil
}

// IsMetadata reports whether the action is a metadata line.
func (a *TableAction) IsMetadata() bool {
	return a.Metadata != nil
}

// IsFile reports whether the action is a file line.
func (a *TableAction) IsFile() bool {
	return a.File != nil
}

// ProtocolAction is the reader protocol announced by the server. Parquet
// responses carry the reader version inline; delta responses nest the full
// Delta protocol record.
type ProtocolAction struct {
	MinReaderVersion int            `json:"minReaderVersion,omitempty" yaml:"minReaderVersion,omitempty"`
	DeltaProtocol    *DeltaProtocol `json:"deltaProtocol,omitempty"    yaml:"deltaProtocol,omitempty"`
}

// Format reports which table format the protocol line belongs to.
func (p *ProtocolAction) Format() Format {
	if p.DeltaProtocol != nil {
		return FormatDelta
	}

	return FormatParquet
}

// DeltaProtocol is the Delta Lake protocol record of a delta-format response.
type DeltaProtocol struct {
	MinReaderVersion int      `json:"minReaderVersion"         yaml:"minReaderVersion"`
	MinWriterVersion int      `json:"minWriterVersion"         yaml:"minWriterVersion"`
	ReaderFeatures   []string `json:"readerFeatures,omitempty" yaml:"readerFeatures,omitempty"`
	WriterFeatures   []string `json:"writerFeatures,omitempty" yaml:"writerFeatures,omitempty"`
}

// FileFormat describes the storage format of a table.
type FileFormat struct {
	Provider string            `json:"provider"          yaml:"provider"`
	Options  map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// MetadataAction is the table metadata line of a response.
type MetadataAction struct {
	ID               string            `json:"id"                         yaml:"id"`
	Name             *string           `json:"name,omitempty"             yaml:"name,omitempty"`
	Description      *string           `json:"description,omitempty"      yaml:"description,omitempty"`
	Format           *FileFormat       `json:"format,omitempty"           yaml:"format,omitempty"`
	SchemaString     string            `json:"schemaString,omitempty"     yaml:"schemaString,omitempty"`
	PartitionColumns []string          `json:"partitionColumns,omitempty" yaml:"partitionColumns,omitempty"`
	Configuration    map[string]string `json:"configuration,omitempty"    yaml:"configuration,omitempty"`
	Version          *uint64           `json:"version,omitempty"          yaml:"version,omitempty"`
	Size             *int64            `json:"size,omitempty"             yaml:"size,omitempty"`
	NumFiles         *int64            `json:"numFiles,omitempty"         yaml:"numFiles,omitempty"`
	DeltaMetadata    *DeltaMetadata    `json:"deltaMetadata,omitempty"    yaml:"deltaMetadata,omitempty"`
}

// SchemaStringValue returns the table schema JSON, reaching into the nested
// delta metadata for delta-format responses.
func (m *MetadataAction) SchemaStringValue() string {
	if m.DeltaMetadata != nil {
		return m.DeltaMetadata.SchemaString
	}

	return m.SchemaString
}

// DeltaMetadata is the Delta Lake metadata record of a delta-format response.
type DeltaMetadata struct {
	ID               string            `json:"id"                      yaml:"id"`
	Name             *string           `json:"name,omitempty"          yaml:"name,omitempty"`
	Description      *string           `json:"description,omitempty"   yaml:"description,omitempty"`
	Format           *FileFormat       `json:"format,omitempty"        yaml:"format,omitempty"`
	SchemaString     string            `json:"schemaString"            yaml:"schemaString"`
	PartitionColumns []string          `json:"partitionColumns"        yaml:"partitionColumns"`
	CreatedTime      *int64            `json:"createdTime,omitempty"   yaml:"createdTime,omitempty"`
	Configuration    map[string]string `json:"configuration,omitempty" yaml:"configuration,omitempty"`
}

// FileAction is a data file line of a query or changes response. Parquet
// responses carry a presigned URL and file attributes inline; delta
// responses nest the Delta single action.
type FileAction struct {
	URL                 string             `json:"url,omitempty"                 yaml:"url,omitempty"`
	ID                  string             `json:"id"                            yaml:"id"`
	PartitionValues     map[string]string  `json:"partitionValues,omitempty"     yaml:"partitionValues,omitempty"`
	Size                int64              `json:"size,omitempty"                yaml:"size,omitempty"`
	Stats               *string            `json:"stats,omitempty"               yaml:"stats,omitempty"`
	Version             *uint64            `json:"version,omitempty"             yaml:"version,omitempty"`
	Timestamp           *int64             `json:"timestamp,omitempty"           yaml:"timestamp,omitempty"`
	ExpirationTimestamp *int64             `json:"expirationTimestamp,omitempty" yaml:"expirationTimestamp,omitempty"`
	DeltaSingleAction   *DeltaSingleAction `json:"deltaSingleAction,omitempty"   yaml:"deltaSingleAction,omitempty"`
}

// Format reports which table format the file line belongs to.
func (f *FileAction) Format() Format {
	if f.DeltaSingleAction != nil {
		return FormatDelta
	}

	return FormatParquet
}

// DeltaSingleAction wraps the Delta Lake log action of a delta-format file
// line.
type DeltaSingleAction struct {
	Add *DeltaAddAction `json:"add,omitempty" yaml:"add,omitempty"`
}

// DeltaAddAction is the Delta Lake add action carried by delta-format file
// lines.
type DeltaAddAction struct {
	Path             string            `json:"path"                       yaml:"path"`
	PartitionValues  map[string]string `json:"partitionValues"            yaml:"partitionValues"`
	Size             int64             `json:"size"                       yaml:"size"`
	ModificationTime int64             `json:"modificationTime,omitempty" yaml:"modificationTime,omitempty"`
	DataChange       bool              `json:"dataChange"                 yaml:"dataChange"`
	Stats            *string           `json:"stats,omitempty"            yaml:"stats,omitempty"`
}

// TableMetadata is the assembled result of a table metadata request.
type TableMetadata struct {
	Protocol ProtocolAction `json:"protocol" yaml:"protocol"`
	Metadata MetadataAction `json:"metaData" yaml:"metaData"`
}

// TableData is the assembled result of a table query request. Files appear
// in server order.
type TableData struct {
	Protocol ProtocolAction `json:"protocol" yaml:"protocol"`
	Metadata MetadataAction `json:"metaData" yaml:"metaData"`
	Files    []FileAction   `json:"files"    yaml:"files"`
}

// TableChanges is the assembled result of a table changes request.
type TableChanges struct {
	Protocol ProtocolAction `json:"protocol" yaml:"protocol"`
	Metadata MetadataAction `json:"metaData" yaml:"metaData"`
	Files    []FileAction   `json:"files"    yaml:"files"`
}

// ParseTableActions decodes a newline-delimited JSON response body into its
// action lines. Blank lines are skipped; any line that does not decode or
// does not carry a recognized action is a parse-response error.
func ParseTableActions(body []byte) ([]TableAction, error) {
	var actions []TableAction

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), maxActionLineSize)

	line := 0
	for scanner.Scan() {
		line++

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var action TableAction

		err := json.Unmarshal(raw, &action)
		if err != nil {
			return nil, NewParseResponseError(fmt.Sprintf("failed to parse action line %d", line)).WithCause(err)
		}

		if !action.IsProtocol() && !action.IsMetadata() && !action.IsFile() {
			return nil, NewParseResponseError(fmt.Sprintf("unrecognized action on line %d", line))
		}

		actions = append(actions, action)
	}

	err := scanner.Err()
	if err != nil {
		return nil, NewParseResponseError("failed to read action lines").WithCause(err)
	}

	return actions, nil
}

// maxActionLineSize bounds a single action line; file stats can make lines
// large.
const maxActionLineSize = 16 * 1024 * 1024
