package classfiletest

import (
	"github.com/dhamidi/javasem/classfile"
)

const (
	public    = classfile.AccPublic
	protected = classfile.AccProtected
	static    = classfile.AccStatic
	final     = classfile.AccFinal
	abstract  = classfile.AccAbstract
	varargs   = classfile.AccVarargs
	iface     = classfile.AccInterface | classfile.AccAbstract
	object    = "java/lang/Object"
)

func method(flags classfile.AccessFlags, name, desc string) Member {
	return Member{Flags: flags, Name: name, Descriptor: desc, Body: flags&abstract == 0}
}

func generic(flags classfile.AccessFlags, name, desc, sig string) Member {
	m := method(flags, name, desc)
	m.Signature = sig
	return m
}

func field(flags classfile.AccessFlags, name, desc string) Member {
	return Member{Flags: flags, Name: name, Descriptor: desc}
}

func ctor(flags classfile.AccessFlags, desc string) Member {
	return method(flags, "<init>", desc)
}

func boxed(name, prim string, number bool) *Class {
	super := object
	if number {
		super = "java/lang/Number"
	}
	internal := "java/lang/" + name
	return &Class{
		Name:       internal,
		Super:      super,
		Interfaces: []string{"java/lang/Comparable", "java/io/Serializable"},
		Flags:      public | final | classfile.AccSuper,
		Signature:  "L" + super + ";Ljava/lang/Comparable<L" + internal + ";>;Ljava/io/Serializable;",
		Fields: []Member{
			{Flags: public | static | final, Name: "TYPE", Descriptor: "Ljava/lang/Class;", Signature: "Ljava/lang/Class<L" + internal + ";>;"},
		},
		Methods: []Member{
			ctor(public, "("+prim+")V"),
			method(public|static, "valueOf", "("+prim+")L"+internal+";"),
			method(public, "toString", "()Ljava/lang/String;"),
			method(public, "compareTo", "(L"+internal+";)I"),
			{Flags: public | classfile.AccBridge | classfile.AccSynthetic, Name: "compareTo", Descriptor: "(Ljava/lang/Object;)I", Body: true},
		},
	}
}

// JDK returns a miniature Java runtime keyed by class file path
// (java/lang/Object.class). It carries the types the language itself
// depends on (Object, String, boxes, Enum, Annotation, Throwable) plus a few
// generic collections for substitution tests.
func JDK() map[string][]byte {
	classes := []*Class{
		{
			Name:  object,
			Flags: public | classfile.AccSuper,
			Methods: []Member{
				ctor(public, "()V"),
				method(public, "toString", "()Ljava/lang/String;"),
				method(public, "equals", "(Ljava/lang/Object;)Z"),
				method(public, "hashCode", "()I"),
				generic(public|final, "getClass", "()Ljava/lang/Class;", "()Ljava/lang/Class<*>;"),
				{Flags: protected, Name: "clone", Descriptor: "()Ljava/lang/Object;", Exceptions: []string{"java/lang/CloneNotSupportedException"}, Body: true},
				method(protected, "finalize", "()V"),
				{Flags: classfile.AccStatic, Name: "<clinit>", Descriptor: "()V", Body: true},
			},
		},
		{
			Name:       "java/lang/String",
			Super:      object,
			Interfaces: []string{"java/io/Serializable", "java/lang/Comparable", "java/lang/CharSequence"},
			Flags:      public | final | classfile.AccSuper,
			Signature:  "Ljava/lang/Object;Ljava/io/Serializable;Ljava/lang/Comparable<Ljava/lang/String;>;Ljava/lang/CharSequence;",
			Fields: []Member{
				{Flags: classfile.AccPrivate | final, Name: "value", Descriptor: "[C"},
				{Flags: public | static | final, Name: "CASE_INSENSITIVE_ORDER", Descriptor: "Ljava/util/Comparator;", Signature: "Ljava/util/Comparator<Ljava/lang/String;>;"},
			},
			Methods: []Member{
				ctor(public, "()V"),
				ctor(public, "(Ljava/lang/String;)V"),
				ctor(public, "([C)V"),
				method(public, "length", "()I"),
				method(public, "isEmpty", "()Z"),
				method(public, "charAt", "(I)C"),
				method(public, "substring", "(I)Ljava/lang/String;"),
				method(public, "substring", "(II)Ljava/lang/String;"),
				method(public, "concat", "(Ljava/lang/String;)Ljava/lang/String;"),
				method(public, "compareTo", "(Ljava/lang/String;)I"),
				method(public, "toCharArray", "()[C"),
				method(public|static, "valueOf", "(I)Ljava/lang/String;"),
				method(public|static, "valueOf", "(C)Ljava/lang/String;"),
				method(public|static, "valueOf", "(Ljava/lang/Object;)Ljava/lang/String;"),
				method(public|static|varargs, "format", "(Ljava/lang/String;[Ljava/lang/Object;)Ljava/lang/String;"),
				method(public|static|varargs, "join", "(Ljava/lang/CharSequence;[Ljava/lang/CharSequence;)Ljava/lang/String;"),
			},
		},
		{
			Name:    "java/lang/CharSequence",
			Super:   object,
			Flags:   public | iface,
			Methods: []Member{method(public|abstract, "length", "()I"), method(public|abstract, "charAt", "(I)C")},
		},
		{
			Name:      "java/lang/Comparable",
			Super:     object,
			Flags:     public | iface,
			Signature: "<T:Ljava/lang/Object;>Ljava/lang/Object;",
			Methods:   []Member{generic(public|abstract, "compareTo", "(Ljava/lang/Object;)I", "(TT;)I")},
		},
		{
			Name:      "java/util/Comparator",
			Super:     object,
			Flags:     public | iface,
			Signature: "<T:Ljava/lang/Object;>Ljava/lang/Object;",
			Methods:   []Member{generic(public|abstract, "compare", "(Ljava/lang/Object;Ljava/lang/Object;)I", "(TT;TT;)I")},
		},
		{Name: "java/io/Serializable", Super: object, Flags: public | iface},
		{Name: "java/lang/Cloneable", Super: object, Flags: public | iface},
		{
			Name:    "java/lang/Runnable",
			Super:   object,
			Flags:   public | iface,
			Methods: []Member{method(public|abstract, "run", "()V")},
		},
		{
			Name:       "java/lang/Number",
			Super:      object,
			Interfaces: []string{"java/io/Serializable"},
			Flags:      public | abstract | classfile.AccSuper,
			Methods: []Member{
				ctor(public, "()V"),
				method(public|abstract, "intValue", "()I"),
				method(public|abstract, "longValue", "()J"),
				method(public|abstract, "doubleValue", "()D"),
			},
		},
		boxed("Integer", "I", true),
		boxed("Long", "J", true),
		boxed("Short", "S", true),
		boxed("Byte", "B", true),
		boxed("Float", "F", true),
		boxed("Double", "D", true),
		boxed("Character", "C", false),
		boxed("Boolean", "Z", false),
		{
			Name:       "java/lang/Enum",
			Super:      object,
			Interfaces: []string{"java/lang/Comparable", "java/io/Serializable"},
			Flags:      public | abstract | classfile.AccSuper,
			Signature:  "<E:Ljava/lang/Enum<TE;>;>Ljava/lang/Object;Ljava/lang/Comparable<TE;>;Ljava/io/Serializable;",
			Methods: []Member{
				ctor(protected, "(Ljava/lang/String;I)V"),
				method(public|final, "name", "()Ljava/lang/String;"),
				method(public|final, "ordinal", "()I"),
				generic(public|final, "compareTo", "(Ljava/lang/Enum;)I", "(TE;)I"),
			},
		},
		{
			Name:      "java/lang/Class",
			Super:     object,
			Flags:     public | final | classfile.AccSuper,
			Signature: "<T:Ljava/lang/Object;>Ljava/lang/Object;",
			Methods: []Member{
				method(public, "getName", "()Ljava/lang/String;"),
				method(public, "getSimpleName", "()Ljava/lang/String;"),
			},
		},
		{
			Name:  "java/lang/System",
			Super: object,
			Flags: public | final | classfile.AccSuper,
			Fields: []Member{
				field(public|static|final, "out", "Ljava/io/PrintStream;"),
				field(public|static|final, "err", "Ljava/io/PrintStream;"),
			},
			Methods: []Member{
				method(classfile.AccPrivate, "<init>", "()V"),
				method(public|static, "currentTimeMillis", "()J"),
			},
		},
		{
			Name:  "java/io/PrintStream",
			Super: object,
			Flags: public | classfile.AccSuper,
			Methods: []Member{
				method(public, "println", "()V"),
				method(public, "println", "(I)V"),
				method(public, "println", "(J)V"),
				method(public, "println", "(Z)V"),
				method(public, "println", "(C)V"),
				method(public, "println", "(D)V"),
				method(public, "println", "(Ljava/lang/String;)V"),
				method(public, "println", "(Ljava/lang/Object;)V"),
			},
		},
		{
			Name:  "java/lang/Math",
			Super: object,
			Flags: public | final | classfile.AccSuper,
			Fields: []Member{
				{Flags: public | static | final, Name: "PI", Descriptor: "D", Constant: 3.141592653589793},
			},
			Methods: []Member{
				method(public|static, "max", "(II)I"),
				method(public|static, "max", "(JJ)J"),
				method(public|static, "max", "(DD)D"),
				method(public|static, "abs", "(I)I"),
			},
		},
		{
			Name:       "java/lang/Throwable",
			Super:      object,
			Interfaces: []string{"java/io/Serializable"},
			Flags:      public | classfile.AccSuper,
			Methods: []Member{
				ctor(public, "()V"),
				ctor(public, "(Ljava/lang/String;)V"),
				method(public, "getMessage", "()Ljava/lang/String;"),
			},
		},
		exception("java/lang/Exception", "java/lang/Throwable"),
		exception("java/lang/RuntimeException", "java/lang/Exception"),
		exception("java/lang/IllegalStateException", "java/lang/RuntimeException"),
		exception("java/lang/IllegalArgumentException", "java/lang/RuntimeException"),
		exception("java/lang/CloneNotSupportedException", "java/lang/Exception"),
		exception("java/io/IOException", "java/lang/Exception"),
		{Name: "java/lang/annotation/Annotation", Super: object, Flags: public | iface},
		annotation("java/lang/Deprecated"),
		annotation("java/lang/Override"),
		annotation("java/lang/FunctionalInterface"),
		{
			Name:      "java/lang/Iterable",
			Super:     object,
			Flags:     public | iface,
			Signature: "<T:Ljava/lang/Object;>Ljava/lang/Object;",
			Methods: []Member{
				generic(public|abstract, "iterator", "()Ljava/util/Iterator;", "()Ljava/util/Iterator<TT;>;"),
			},
		},
		{
			Name:      "java/util/Iterator",
			Super:     object,
			Flags:     public | iface,
			Signature: "<E:Ljava/lang/Object;>Ljava/lang/Object;",
			Methods: []Member{
				method(public|abstract, "hasNext", "()Z"),
				generic(public|abstract, "next", "()Ljava/lang/Object;", "()TE;"),
			},
		},
		{
			Name:       "java/util/Collection",
			Super:      object,
			Interfaces: []string{"java/lang/Iterable"},
			Flags:      public | iface,
			Signature:  "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Iterable<TE;>;",
			Methods: []Member{
				method(public|abstract, "size", "()I"),
				method(public|abstract, "isEmpty", "()Z"),
				generic(public|abstract, "add", "(Ljava/lang/Object;)Z", "(TE;)Z"),
			},
		},
		{
			Name:       "java/util/List",
			Super:      object,
			Interfaces: []string{"java/util/Collection"},
			Flags:      public | iface,
			Signature:  "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;",
			Methods: []Member{
				generic(public|abstract, "get", "(I)Ljava/lang/Object;", "(I)TE;"),
				generic(public|abstract, "set", "(ILjava/lang/Object;)Ljava/lang/Object;", "(ITE;)TE;"),
			},
		},
		{
			Name:       "java/util/ArrayList",
			Super:      object,
			Interfaces: []string{"java/util/List"},
			Flags:      public | classfile.AccSuper,
			Signature:  "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/List<TE;>;",
			Methods: []Member{
				ctor(public, "()V"),
				ctor(public, "(I)V"),
				method(public, "size", "()I"),
				method(public, "isEmpty", "()Z"),
				generic(public, "add", "(Ljava/lang/Object;)Z", "(TE;)Z"),
				generic(public, "get", "(I)Ljava/lang/Object;", "(I)TE;"),
				generic(public, "set", "(ILjava/lang/Object;)Ljava/lang/Object;", "(ITE;)TE;"),
				generic(public, "iterator", "()Ljava/util/Iterator;", "()Ljava/util/Iterator<TE;>;"),
			},
		},
		{
			Name:      "java/util/Map",
			Super:     object,
			Flags:     public | iface,
			Signature: "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;",
			Methods: []Member{
				generic(public|abstract, "get", "(Ljava/lang/Object;)Ljava/lang/Object;", "(Ljava/lang/Object;)TV;"),
				generic(public|abstract, "put", "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;", "(TK;TV;)TV;"),
			},
			InnerClasses: []classfile.InnerClass{
				{Name: "java/util/Map$Entry", Outer: "java/util/Map", SimpleName: "Entry", AccessFlags: public | static | iface},
			},
		},
		{
			Name:      "java/util/Map$Entry",
			Super:     object,
			Flags:     public | iface,
			Signature: "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;",
			Methods: []Member{
				generic(public|abstract, "getKey", "()Ljava/lang/Object;", "()TK;"),
				generic(public|abstract, "getValue", "()Ljava/lang/Object;", "()TV;"),
			},
			InnerClasses: []classfile.InnerClass{
				{Name: "java/util/Map$Entry", Outer: "java/util/Map", SimpleName: "Entry", AccessFlags: public | static | iface},
			},
		},
		{
			Name:  "java/util/Collections",
			Super: object,
			Flags: public | classfile.AccSuper,
			Methods: []Member{
				generic(public|static, "emptyList", "()Ljava/util/List;", "<T:Ljava/lang/Object;>()Ljava/util/List<TT;>;"),
				generic(public|static, "singletonList", "(Ljava/lang/Object;)Ljava/util/List;", "<T:Ljava/lang/Object;>(TT;)Ljava/util/List<TT;>;"),
			},
		},
	}
	files := make(map[string][]byte, len(classes))
	for _, c := range classes {
		files[c.Name+".class"] = c.Bytes()
	}
	return files
}

func exception(name, super string) *Class {
	return &Class{
		Name:  name,
		Super: super,
		Flags: public | classfile.AccSuper,
		Methods: []Member{
			ctor(public, "()V"),
			ctor(public, "(Ljava/lang/String;)V"),
		},
	}
}

func annotation(name string) *Class {
	return &Class{
		Name:        name,
		Super:       object,
		Interfaces:  []string{"java/lang/annotation/Annotation"},
		Flags:       public | iface | classfile.AccAnnotation,
		Annotations: []string{"Ljava/lang/annotation/Documented;"},
	}
}

// With returns a copy of files extended with the given classes.
func With(files map[string][]byte, classes ...*Class) map[string][]byte {
	out := make(map[string][]byte, len(files)+len(classes))
	for k, v := range files {
		out[k] = v
	}
	for _, c := range classes {
		out[c.Name+".class"] = c.Bytes()
	}
	return out
}
