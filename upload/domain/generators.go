package domain

import (
	"sort"

	"github.com/leanovate/gopter"
)

//
// Generators contains Generator methods that are useful
// when doing property based testing
//

// GenFiles generates a non-empty ascending list of file sizes in [1, maxSize],
// with at most maxFiles entries.
func GenFiles(maxFiles, maxSize int) gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		return gopter.NewGenResult(genFiles(genParams, maxFiles, maxSize), gopter.NoShrinker)
	}
}

func genFiles(genParams *gopter.GenParameters, maxFiles, maxSize int) []int {
	n := genParams.Rng.Intn(maxFiles) + 1
	files := make([]int, n)
	for i := range files {
		files[i] = genParams.Rng.Intn(maxSize) + 1
	}
	sort.Ints(files)
	return files
}

// GenClient generates a Client with a random positive id and files from GenFiles.
// ArrivalTime is left unset.
func GenClient(maxFiles, maxSize int) gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		id := genParams.Rng.Int63n(1<<31) + 1
		c := &Client{Id: id, Files: genFiles(genParams, maxFiles, maxSize)}
		return gopter.NewGenResult(c, gopter.NoShrinker)
	}
}
