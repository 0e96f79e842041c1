package config

import "strings"

// normalize trims values, expands paths and upper-cases cell references.
// An empty cell_order defaults to cells_to_extract.
func (c *Config) normalize() error {
	var err error
	for _, p := range []*string{&c.Parse.InboundDir, &c.Parse.ArchiveDir, &c.Parse.OutboundDir} {
		*p = strings.TrimSpace(*p)
		if *p == "" {
			continue
		}
		if *p, err = expandPath(*p); err != nil {
			return &ConfigurationError{Err: err}
		}
	}

	c.Parse.FileFilter = strings.TrimSpace(c.Parse.FileFilter)
	c.Parse.CellsToExtract = normalizeCells(c.Parse.CellsToExtract)
	c.Parse.CellOrder = normalizeCells(c.Parse.CellOrder)
	c.Parse.IgnoreIfEmpty = normalizeCells(c.Parse.IgnoreIfEmpty)
	if len(c.Parse.CellOrder) == 0 {
		c.Parse.CellOrder = append([]string(nil), c.Parse.CellsToExtract...)
	}

	cellMap := make(map[string][]string, len(c.CellMap))
	for cell, aliases := range c.CellMap {
		key := normalizeCell(cell)
		cellMap[key] = append(cellMap[key], aliases...)
	}
	c.CellMap = cellMap

	thresholds := make(map[string]int, len(c.CellFieldThresholds))
	for cell, n := range c.CellFieldThresholds {
		thresholds[normalizeCell(cell)] = n
	}
	c.CellFieldThresholds = thresholds

	if c.HeaderFieldLengths == nil {
		c.HeaderFieldLengths = make(map[string]int)
	}
	if c.HeaderFieldThresholds == nil {
		c.HeaderFieldThresholds = make(map[string]int)
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

func normalizeCell(cell string) string {
	return strings.ToUpper(strings.TrimSpace(cell))
}

func normalizeCells(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, cell := range cells {
		if cell = normalizeCell(cell); cell != "" {
			out = append(out, cell)
		}
	}
	return out
}
