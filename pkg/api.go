package dup

// FindDuplicates runs a complete detection over native paths with default settings
func FindDuplicates(dirs []string, cross, recursive bool) (*DuplicateMap, error) {
	f, err := NewFinder(NewOSFilesystem(), Options{
		Dirs:      dirs,
		Cross:     cross,
		Recursive: recursive,
	})
	if err != nil {
		return nil, err
	}

	result, err := f.Run(nil)
	if err != nil {
		return nil, err
	}
	return result.Duplicates, nil
}
