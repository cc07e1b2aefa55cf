package fieldType

import "gnomad/pipeline/models/constants"

const (
	Keyword constants.FieldType = "keyword" // exact-match string
	Long    constants.FieldType = "long"    // 64-bit integer
	Double  constants.FieldType = "double"
	Boolean constants.FieldType = "boolean"
)
