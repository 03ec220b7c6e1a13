// Package scan enumerates the regular files of a source directory.
//
// A Scanner is a single-pass iterator: each call to Next stats one more
// directory entry and returns its record, so large directories are never
// listed into memory at once. Entries that cannot be read are skipped and
// recorded as warnings instead of aborting the scan.
//
//	s, err := scan.Open(dir, scan.Options{})
//	if err != nil {
//	    return err // *domain.SourceNotFoundError
//	}
//	defer s.Close()
//
//	for {
//	    rec, err := s.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // use rec
//	}
//
// Only the top level of the directory is visited. Symlinks are followed when
// they resolve to regular files.
package scan
