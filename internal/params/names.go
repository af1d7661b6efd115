package params

// Names lists every parameter name the engine reads or writes. The defaults
// match the shared parameter file used by GOST specification templates; each
// field may be overridden from configuration.
type Names struct {
	System          string `yaml:"system"`
	RevitSystemName string `yaml:"revit_system_name"`
	Order           string `yaml:"order"`
	Position        string `yaml:"position"`

	SourceName           string `yaml:"source_name"`
	SourceMark           string `yaml:"source_mark"`
	SourceMass           string `yaml:"source_mass"`
	SourceCode           string `yaml:"source_code"`
	SourceManufacturer   string `yaml:"source_manufacturer"`
	SourceUnit           string `yaml:"source_unit"`
	SourceNote           string `yaml:"source_note"`
	SourceInsulationType string `yaml:"source_insulation_type"`
	SourcePipeType       string `yaml:"source_pipe_type"`
	SourceInsulationSize string `yaml:"source_insulation_size"`
	SourceLength         string `yaml:"source_length"`

	TargetName         string `yaml:"target_name"`
	TargetMark         string `yaml:"target_mark"`
	TargetMass         string `yaml:"target_mass"`
	TargetCode         string `yaml:"target_code"`
	TargetManufacturer string `yaml:"target_manufacturer"`
	TargetUnit         string `yaml:"target_unit"`
	TargetNote         string `yaml:"target_note"`
	TargetCount        string `yaml:"target_count"`

	Length        string `yaml:"length"`
	Area          string `yaml:"area"`
	Size          string `yaml:"size"`
	PipeSize      string `yaml:"pipe_size"`
	Diameter      string `yaml:"diameter"`
	Height        string `yaml:"height"`
	Width         string `yaml:"width"`
	Thickness     string `yaml:"thickness"`
	OuterDiameter string `yaml:"outer_diameter"`
	InnerDiameter string `yaml:"inner_diameter"`
	TypeName      string `yaml:"type_name"`
	CountingType  string `yaml:"counting_type"`

	Reserve        string `yaml:"reserve"`
	Subgroup       string `yaml:"subgroup"`
	ProjectSection string `yaml:"project_section"`
}

// DefaultNames returns the stock parameter names.
func DefaultNames() Names {
	return Names{
		System:          "С_Система",
		RevitSystemName: "Имя системы",
		Order:           "С_Сортировка",
		Position:        "С_Позиция",

		SourceName:           "KAZGOR_Наименование",
		SourceMark:           "KAZGOR_Марка",
		SourceMass:           "KAZGOR_Масса",
		SourceCode:           "KAZGOR_Код изделия",
		SourceManufacturer:   "KAZGOR_Завод-изготовитель",
		SourceUnit:           "KAZGOR_Единица измерения",
		SourceNote:           "KAZGOR_Примечание",
		SourceInsulationType: "Тип изоляции",
		SourcePipeType:       "Тип трубопровода",
		SourceInsulationSize: "KAZGOR_Диаметр изоляции",
		SourceLength:         "KAZGOR_Размер_Длина",

		TargetName:         "С_Наименование",
		TargetMark:         "С_Марка",
		TargetMass:         "С_Масса",
		TargetCode:         "С_Код изделия",
		TargetManufacturer: "С_Завод-изготовитель",
		TargetUnit:         "С_Единица измерения",
		TargetNote:         "С_Примечание",
		TargetCount:        "С_Количество",

		Length:        "Длина",
		Area:          "Площадь",
		Size:          "Размер",
		PipeSize:      "Размер трубы",
		Diameter:      "Диаметр",
		Height:        "Высота",
		Width:         "Ширина",
		Thickness:     "Толщина изоляции",
		OuterDiameter: "Внешний диаметр",
		InnerDiameter: "Внутренний диаметр",
		TypeName:      "Имя типа",
		CountingType:  "Тип_подсчета",

		Reserve:        "Запас",
		Subgroup:       "Подгруппа",
		ProjectSection: "KAZGOR_Раздел проекта",
	}
}

// WithDefaults fills empty fields from DefaultNames.
func (n Names) WithDefaults() Names { return n.Fill(DefaultNames()) }

// Fill returns n with every empty field taken from d.
func (n Names) Fill(d Names) Names {
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&n.System, d.System)
	fill(&n.RevitSystemName, d.RevitSystemName)
	fill(&n.Order, d.Order)
	fill(&n.Position, d.Position)
	fill(&n.SourceName, d.SourceName)
	fill(&n.SourceMark, d.SourceMark)
	fill(&n.SourceMass, d.SourceMass)
	fill(&n.SourceCode, d.SourceCode)
	fill(&n.SourceManufacturer, d.SourceManufacturer)
	fill(&n.SourceUnit, d.SourceUnit)
	fill(&n.SourceNote, d.SourceNote)
	fill(&n.SourceInsulationType, d.SourceInsulationType)
	fill(&n.SourcePipeType, d.SourcePipeType)
	fill(&n.SourceInsulationSize, d.SourceInsulationSize)
	fill(&n.SourceLength, d.SourceLength)
	fill(&n.TargetName, d.TargetName)
	fill(&n.TargetMark, d.TargetMark)
	fill(&n.TargetMass, d.TargetMass)
	fill(&n.TargetCode, d.TargetCode)
	fill(&n.TargetManufacturer, d.TargetManufacturer)
	fill(&n.TargetUnit, d.TargetUnit)
	fill(&n.TargetNote, d.TargetNote)
	fill(&n.TargetCount, d.TargetCount)
	fill(&n.Length, d.Length)
	fill(&n.Area, d.Area)
	fill(&n.Size, d.Size)
	fill(&n.PipeSize, d.PipeSize)
	fill(&n.Diameter, d.Diameter)
	fill(&n.Height, d.Height)
	fill(&n.Width, d.Width)
	fill(&n.Thickness, d.Thickness)
	fill(&n.OuterDiameter, d.OuterDiameter)
	fill(&n.InnerDiameter, d.InnerDiameter)
	fill(&n.TypeName, d.TypeName)
	fill(&n.CountingType, d.CountingType)
	fill(&n.Reserve, d.Reserve)
	fill(&n.Subgroup, d.Subgroup)
	fill(&n.ProjectSection, d.ProjectSection)
	return n
}

// Pair maps a source parameter to the target it is copied into.
type Pair struct {
	Source string
	Target string
}

// StandardPairs returns the parameters every handler copies, in copy order.
func (n Names) StandardPairs() []Pair {
	return []Pair{
		{Source: n.SourceMark, Target: n.TargetMark},
		{Source: n.SourceCode, Target: n.TargetCode},
		{Source: n.SourceManufacturer, Target: n.TargetManufacturer},
		{Source: n.SourceUnit, Target: n.TargetUnit},
		{Source: n.SourceNote, Target: n.TargetNote},
		{Source: n.SourceMass, Target: n.TargetMass},
	}
}
