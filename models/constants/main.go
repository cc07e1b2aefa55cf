package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the pipeline and its
	associated services.
*/
type AssemblyId string
type SortDirection string

// Sequencing modality a coverage detail was computed from
type Modality string

// Elasticsearch field datatype as declared in an index mapping
type FieldType string

// Legacy elasticsearch document-type partition every write targets
const DocumentType = "_doc"
