package symptom

// Built-in registry. Order matters: equal scores rank in declaration order.
var defaultDiseases = []DiseaseProfile{
	{
		Name:         "Common Cold",
		Keywords:     []string{"runny nose", "sneezing", "sore throat", "cough", "nasal congestion", "mild fever"},
		SeverityTier: TierLow,
		Specialist:   "General Physician",
		Tests:        []string{"Physical examination"},
		Actions:      []string{"Rest and stay hydrated", "Use saline nasal spray", "Take over-the-counter cold remedies if needed"},
	},
	{
		Name:         "Influenza (Flu)",
		Keywords:     []string{"high fever", "body aches", "cough", "fatigue", "headache", "chills", "sore throat"},
		SeverityTier: TierMedium,
		Specialist:   "General Physician",
		Tests:        []string{"Rapid influenza diagnostic test", "Complete Blood Count (CBC)"},
		Actions:      []string{"Rest and drink plenty of fluids", "Take fever reducers as directed", "Consult a doctor about antiviral medication within 48 hours"},
	},
	{
		Name:         "Viral Fever",
		Keywords:     []string{"fever", "body aches", "fatigue", "headache", "chills"},
		SeverityTier: TierLow,
		Specialist:   "General Physician",
		Tests:        []string{"Complete Blood Count (CBC)", "Body temperature monitoring"},
		Actions:      []string{"Rest and stay hydrated", "Monitor temperature twice daily", "See a doctor if fever lasts more than 3 days"},
	},
	{
		Name:         "COVID-19",
		Keywords:     []string{"fever", "dry cough", "loss of taste", "loss of smell", "shortness of breath", "fatigue", "body aches", "headache"},
		SeverityTier: TierMedium,
		Specialist:   "Pulmonologist",
		Tests:        []string{"RT-PCR test", "Rapid antigen test", "Pulse oximetry"},
		Actions:      []string{"Isolate from others", "Monitor oxygen saturation", "Seek care if breathing becomes difficult"},
	},
	{
		Name:         "Dengue Fever",
		Keywords:     []string{"high fever", "severe headache", "pain behind eyes", "joint pain", "muscle pain", "skin rash", "nausea", "bleeding gums"},
		SeverityTier: TierHigh,
		Specialist:   "Infectious Disease Specialist",
		Tests:        []string{"NS1 antigen test", "Dengue IgM/IgG serology", "Platelet count"},
		Actions:      []string{"Drink plenty of fluids", "Avoid aspirin and ibuprofen", "Seek immediate care for bleeding or severe abdominal pain"},
	},
	{
		Name:         "Malaria",
		Keywords:     []string{"fever", "chills", "sweating", "headache", "nausea", "vomiting", "muscle pain", "fatigue"},
		SeverityTier: TierHigh,
		Specialist:   "Infectious Disease Specialist",
		Tests:        []string{"Peripheral blood smear", "Malaria rapid diagnostic test", "Complete Blood Count (CBC)"},
		Actions:      []string{"Start treatment promptly after diagnosis", "Stay hydrated", "Use mosquito protection"},
	},
	{
		Name:         "Typhoid Fever",
		Keywords:     []string{"prolonged fever", "weakness", "stomach pain", "headache", "loss of appetite", "constipation"},
		SeverityTier: TierHigh,
		Specialist:   "Infectious Disease Specialist",
		Tests:        []string{"Widal test", "Blood culture", "Typhidot test"},
		Actions:      []string{"Complete the prescribed antibiotic course", "Eat soft easily digestible food", "Drink boiled or bottled water"},
	},
	{
		Name:         "Pneumonia",
		Keywords:     []string{"phlegm", "fever", "chest pain", "difficulty breathing", "chills", "fatigue", "rapid breathing", "chest congestion"},
		SeverityTier: TierHigh,
		Specialist:   "Pulmonologist",
		Tests:        []string{"Chest X-ray", "Complete Blood Count (CBC)", "Sputum culture", "Pulse oximetry"},
		Actions:      []string{"Seek medical evaluation promptly", "Rest and stay hydrated", "Monitor breathing and oxygen levels"},
	},
	{
		Name:         "Asthma",
		Keywords:     []string{"wheezing", "shortness of breath", "chest tightness", "coughing at night"},
		SeverityTier: TierMedium,
		Specialist:   "Pulmonologist",
		Tests:        []string{"Spirometry", "Peak flow measurement"},
		Actions:      []string{"Use rescue inhaler as prescribed", "Avoid known triggers", "Seek emergency care if inhaler does not help"},
	},
	{
		Name:         "Bronchitis",
		Keywords:     []string{"persistent cough", "mucus", "chest discomfort", "fatigue", "mild fever", "wheezing"},
		SeverityTier: TierMedium,
		Specialist:   "Pulmonologist",
		Tests:        []string{"Chest X-ray", "Sputum test"},
		Actions:      []string{"Rest and drink warm fluids", "Use a humidifier", "Avoid smoke and irritants"},
	},
	{
		Name:         "Migraine",
		Keywords:     []string{"severe headache", "throbbing pain", "sensitivity to light", "sensitivity to sound", "nausea", "visual disturbances"},
		SeverityTier: TierMedium,
		Specialist:   "Neurologist",
		Tests:        []string{"Neurological examination", "MRI brain (if recurrent)"},
		Actions:      []string{"Rest in a dark quiet room", "Keep a headache diary", "Take prescribed migraine medication early"},
	},
	{
		Name:         "Hypertension",
		Keywords:     []string{"headache", "dizziness", "blurred vision", "chest pain", "nosebleeds", "shortness of breath"},
		SeverityTier: TierMedium,
		Specialist:   "Cardiologist",
		Tests:        []string{"Blood pressure monitoring", "ECG", "Lipid profile", "Kidney function test"},
		Actions:      []string{"Reduce salt intake", "Monitor blood pressure regularly", "Exercise regularly"},
	},
	{
		Name:         "Heart Attack",
		Keywords:     []string{"chest pain", "pain in left arm", "shortness of breath", "cold sweat", "nausea", "jaw pain"},
		SeverityTier: TierCritical,
		Specialist:   "Cardiologist",
		Tests:        []string{"ECG", "Troponin test", "Echocardiogram"},
		Actions:      []string{"Call emergency services immediately", "Chew aspirin if not allergic", "Do not drive yourself to hospital"},
	},
	{
		Name:         "Stroke",
		Keywords:     []string{"facial drooping", "arm weakness", "speech difficulty", "sudden confusion", "severe headache", "loss of balance"},
		SeverityTier: TierCritical,
		Specialist:   "Neurologist",
		Tests:        []string{"CT scan brain", "MRI brain", "Carotid ultrasound"},
		Actions:      []string{"Call emergency services immediately", "Note the time symptoms started", "Do not give food or drink"},
	},
	{
		Name:         "Gastroenteritis",
		Keywords:     []string{"diarrhea", "vomiting", "nausea", "stomach cramps", "abdominal pain", "mild fever"},
		SeverityTier: TierMedium,
		Specialist:   "Gastroenterologist",
		Tests:        []string{"Stool test", "Electrolyte panel"},
		Actions:      []string{"Drink oral rehydration solution", "Eat bland food", "Seek care if unable to keep fluids down"},
	},
	{
		Name:         "Appendicitis",
		Keywords:     []string{"severe abdominal pain", "pain in lower right abdomen", "nausea", "vomiting", "low-grade fever", "loss of appetite"},
		SeverityTier: TierHigh,
		Specialist:   "General Surgeon",
		Tests:        []string{"Abdominal ultrasound", "CT scan abdomen", "Complete Blood Count (CBC)"},
		Actions:      []string{"Seek emergency evaluation", "Do not eat or drink", "Avoid pain killers before examination"},
	},
	{
		Name:         "Urinary Tract Infection",
		Keywords:     []string{"burning urination", "frequent urination", "cloudy urine", "pelvic pain", "strong urine odor"},
		SeverityTier: TierMedium,
		Specialist:   "Urologist",
		Tests:        []string{"Urinalysis", "Urine culture"},
		Actions:      []string{"Drink plenty of water", "Complete the prescribed antibiotic course", "Avoid caffeine and alcohol"},
	},
	{
		Name:         "Type 2 Diabetes",
		Keywords:     []string{"frequent urination", "excessive thirst", "unexplained weight loss", "blurred vision", "slow healing wounds", "fatigue"},
		SeverityTier: TierMedium,
		Specialist:   "Endocrinologist",
		Tests:        []string{"Fasting blood sugar", "HbA1c test", "Oral glucose tolerance test"},
		Actions:      []string{"Limit sugar and refined carbohydrates", "Exercise regularly", "Monitor blood glucose"},
	},
	{
		Name:         "Allergic Rhinitis",
		Keywords:     []string{"sneezing", "itchy eyes", "runny nose", "nasal congestion", "watery eyes"},
		SeverityTier: TierLow,
		Specialist:   "Allergist",
		Tests:        []string{"Skin prick test", "Specific IgE blood test"},
		Actions:      []string{"Avoid known allergens", "Use antihistamines as directed", "Keep windows closed during high pollen days"},
	},
	{
		Name:         "Anxiety Disorder",
		Keywords:     []string{"excessive worry", "restlessness", "rapid heartbeat", "difficulty sleeping", "irritability"},
		SeverityTier: TierLow,
		Specialist:   "Psychiatrist",
		Tests:        []string{"Psychological assessment", "Thyroid function test"},
		Actions:      []string{"Practice relaxation techniques", "Maintain regular sleep", "Talk to a mental health professional"},
	},
}

var defaultSynonyms = SynonymTable{
	{Canonical: "fever", Alternates: []string{"high temperature", "temperature", "feverish", "hot body", "pyrexia"}},
	{Canonical: "headache", Alternates: []string{"head pain", "head ache", "head hurts", "pounding head"}},
	{Canonical: "cough", Alternates: []string{"coughing", "hacking", "tickly throat"}},
	{Canonical: "body aches", Alternates: []string{"body pain", "muscle aches", "aching body", "myalgia", "sore muscles"}},
	{Canonical: "fatigue", Alternates: []string{"tired", "tiredness", "exhaustion", "lethargy", "no energy"}},
	{Canonical: "nausea", Alternates: []string{"feeling sick", "queasy", "upset stomach"}},
	{Canonical: "vomiting", Alternates: []string{"throwing up", "puking"}},
	{Canonical: "diarrhea", Alternates: []string{"loose stools", "loose motion", "watery stool"}},
	{Canonical: "shortness of breath", Alternates: []string{"breathless", "can't breathe", "hard to breathe", "short of breath"}},
	{Canonical: "sore throat", Alternates: []string{"throat pain", "scratchy throat", "painful swallowing"}},
	{Canonical: "runny nose", Alternates: []string{"nasal discharge", "dripping nose"}},
	{Canonical: "chest pain", Alternates: []string{"chest tightness", "chest pressure", "chest discomfort"}},
	{Canonical: "dizziness", Alternates: []string{"lightheaded", "light headed", "vertigo", "spinning"}},
	{Canonical: "abdominal pain", Alternates: []string{"stomach ache", "belly pain", "tummy ache", "stomach pain"}},
	{Canonical: "skin rash", Alternates: []string{"rash", "red spots", "hives", "red patches"}},
	{Canonical: "joint pain", Alternates: []string{"aching joints", "painful joints", "arthralgia"}},
	{Canonical: "chills", Alternates: []string{"shivering", "feeling cold", "rigors"}},
}
