package modality

import "gnomad/pipeline/models/constants"

const (
	Exome  constants.Modality = "exome"
	Genome constants.Modality = "genome"
)
